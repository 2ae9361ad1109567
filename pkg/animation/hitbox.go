package animation

import (
	"slices"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/boxdata/pkg/store"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// AddHitbox allocates a record in table and appends a hitbox pairing it with
// bound. Nothing is added if the table is not registered.
func (a *Animation) AddHitbox(table string, bound types.BoundingBox) (Hitbox, bool) {
	ref, ok := a.AllocateRecord(table)
	if !ok {
		return Hitbox{}, false
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	hb := Hitbox{ID: id.String(), Bound: bound, Record: ref}
	a.hitboxes = append(a.hitboxes, hb)
	return hb, true
}

// RemoveHitbox removes the hitbox at index i and releases its record key.
// The record's row is left in place. Out-of-range indices are ignored.
func (a *Animation) RemoveHitbox(i int) {
	if i < 0 || i >= len(a.hitboxes) {
		return
	}
	hb := a.hitboxes[i]
	a.hitboxes = slices.Delete(a.hitboxes, i, i+1)
	a.ReleaseRecord(hb.Record)
}

// RemoveHitboxByID removes the hitbox with the given ID and reports whether
// one was found.
func (a *Animation) RemoveHitboxByID(id string) bool {
	i := a.HitboxIndex(id)
	if i < 0 {
		return false
	}
	a.RemoveHitbox(i)
	return true
}

// HitboxIndex returns the position of the hitbox with the given ID, or -1.
func (a *Animation) HitboxIndex(id string) int {
	return slices.IndexFunc(a.hitboxes, func(hb Hitbox) bool { return hb.ID == id })
}

// Hitbox returns the hitbox at index i.
func (a *Animation) Hitbox(i int) (Hitbox, bool) {
	if i < 0 || i >= len(a.hitboxes) {
		return Hitbox{}, false
	}
	return a.hitboxes[i], true
}

// Hitboxes returns the hitboxes in insertion order. The slice must not be
// modified.
func (a *Animation) Hitboxes() []Hitbox { return a.hitboxes }

// MoveHitbox translates the bound of the hitbox at index i.
func (a *Animation) MoveHitbox(i int, dx, dy float32) {
	if i < 0 || i >= len(a.hitboxes) {
		return
	}
	a.hitboxes[i].Bound.Translate(dx, dy)
}

// RotateHitbox rotates the bound of the hitbox at index i by angle radians.
func (a *Animation) RotateHitbox(i int, angle float32) {
	if i < 0 || i >= len(a.hitboxes) {
		return
	}
	a.hitboxes[i].Bound.Rotate(angle)
}

// HitboxRecord returns the schema and row of the record behind hitbox i.
// It reports false if the index is out of range or the row no longer exists.
func (a *Animation) HitboxRecord(i int) ([]types.Field, store.Row, bool) {
	hb, ok := a.Hitbox(i)
	if !ok {
		return nil, nil, false
	}
	return a.Record(hb.Record)
}
