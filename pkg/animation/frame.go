package animation

import "github.com/mesh-intelligence/boxdata/pkg/types"

// AddFrame appends a frame covering rect with the given centre and returns
// its index.
func (a *Animation) AddFrame(rect types.AABB, centre [2]uint32) int {
	a.frames = append(a.frames, Frame{Centre: centre, Rect: rect})
	return len(a.frames) - 1
}

// Frame returns the frame at index i.
func (a *Animation) Frame(i int) (Frame, bool) {
	if i < 0 || i >= len(a.frames) {
		return Frame{}, false
	}
	return a.frames[i], true
}

// Frames returns the frames in order. The slice must not be modified.
func (a *Animation) Frames() []Frame { return a.frames }

// MoveFrame translates the rectangle of frame i by (dx, dy). Out-of-range
// indices are ignored.
func (a *Animation) MoveFrame(i int, dx, dy int32) {
	if i < 0 || i >= len(a.frames) {
		return
	}
	a.frames[i].Rect.Translate(dx, dy)
}

// SetActiveHitboxes replaces the hitbox indices active in frame i.
func (a *Animation) SetActiveHitboxes(i int, hitboxes []int) {
	if i < 0 || i >= len(a.frames) {
		return
	}
	a.frames[i].ActiveHitboxes = append([]int(nil), hitboxes...)
}
