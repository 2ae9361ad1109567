package store

import "slices"

// KeyAllocator hands out small non-negative keys, reusing released keys
// before growing. Freed keys are reused most-recently-released first.
//
// The allocator tracks a high-water mark (the largest key ever handed out
// and not yet collapsed) and a stack of released keys below it.
type KeyAllocator struct {
	highWater uint32
	started   bool
	free      []uint32
}

// NewKeyAllocator returns an allocator that has handed out nothing.
func NewKeyAllocator() *KeyAllocator {
	return &KeyAllocator{}
}

// Allocate returns a key that is not currently outstanding.
func (a *KeyAllocator) Allocate() uint32 {
	if !a.started {
		a.started = true
		a.highWater = 0
		return 0
	}
	if n := len(a.free); n > 0 {
		key := a.free[n-1]
		a.free = a.free[:n-1]
		return key
	}
	a.highWater++
	return a.highWater
}

// Release returns key to the allocator. Releasing a key above the high-water
// mark, a key that is already free, or any key before the first Allocate has
// no effect.
//
// Releasing the high-water key lowers the mark, and keeps lowering it past
// any free keys directly beneath, so every free key stays below the mark.
// When the mark drops below zero the allocator returns to its initial state.
func (a *KeyAllocator) Release(key uint32) {
	if !a.started || key > a.highWater {
		return
	}
	if key < a.highWater {
		if !slices.Contains(a.free, key) {
			a.free = append(a.free, key)
		}
		return
	}
	for {
		if a.highWater == 0 {
			a.reset()
			return
		}
		a.highWater--
		i := slices.Index(a.free, a.highWater)
		if i < 0 {
			return
		}
		a.free = slices.Delete(a.free, i, i+1)
	}
}

func (a *KeyAllocator) reset() {
	a.started = false
	a.highWater = 0
	a.free = a.free[:0]
}

// HighWater returns the high-water mark, or false if nothing is allocated.
func (a *KeyAllocator) HighWater() (uint32, bool) {
	return a.highWater, a.started
}

// Free returns the number of released keys awaiting reuse.
func (a *KeyAllocator) Free() int { return len(a.free) }

// Outstanding returns the number of keys currently handed out.
func (a *KeyAllocator) Outstanding() int {
	if !a.started {
		return 0
	}
	return int(a.highWater) + 1 - len(a.free)
}
