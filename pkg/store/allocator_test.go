package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAllocator(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, a *KeyAllocator)
	}{
		{
			name: "first allocation is zero then grows",
			check: func(t *testing.T, a *KeyAllocator) {
				assert.Equal(t, uint32(0), a.Allocate())
				assert.Equal(t, uint32(1), a.Allocate())
				assert.Equal(t, uint32(2), a.Allocate())
				hw, ok := a.HighWater()
				assert.True(t, ok)
				assert.Equal(t, uint32(2), hw)
			},
		},
		{
			name: "released key is reused before growing",
			check: func(t *testing.T, a *KeyAllocator) {
				a.Allocate()
				a.Allocate()
				a.Release(0)
				assert.Equal(t, uint32(0), a.Allocate())
				assert.Equal(t, uint32(2), a.Allocate())
			},
		},
		{
			name: "reuse is most recently released first",
			check: func(t *testing.T, a *KeyAllocator) {
				for range 5 {
					a.Allocate()
				}
				a.Release(1)
				a.Release(3)
				a.Release(2)
				assert.Equal(t, uint32(2), a.Allocate())
				assert.Equal(t, uint32(3), a.Allocate())
				assert.Equal(t, uint32(1), a.Allocate())
				assert.Equal(t, uint32(5), a.Allocate())
			},
		},
		{
			name: "release on fresh allocator is ignored",
			check: func(t *testing.T, a *KeyAllocator) {
				a.Release(5)
				a.Release(0)
				_, ok := a.HighWater()
				assert.False(t, ok)
				assert.Equal(t, uint32(0), a.Allocate())
			},
		},
		{
			name: "release above high water is ignored",
			check: func(t *testing.T, a *KeyAllocator) {
				a.Allocate()
				a.Allocate()
				a.Release(7)
				assert.Equal(t, 0, a.Free())
				assert.Equal(t, uint32(2), a.Allocate())
			},
		},
		{
			name: "double release does not duplicate",
			check: func(t *testing.T, a *KeyAllocator) {
				for range 3 {
					a.Allocate()
				}
				a.Release(1)
				a.Release(1)
				assert.Equal(t, 1, a.Free())
				assert.Equal(t, uint32(1), a.Allocate())
				assert.Equal(t, uint32(3), a.Allocate())
			},
		},
		{
			name: "releasing sole key resets",
			check: func(t *testing.T, a *KeyAllocator) {
				a.Allocate()
				a.Release(0)
				_, ok := a.HighWater()
				assert.False(t, ok)
				assert.Equal(t, 0, a.Outstanding())
				assert.Equal(t, uint32(0), a.Allocate())
			},
		},
		{
			name: "releasing high water collapses through free keys",
			check: func(t *testing.T, a *KeyAllocator) {
				for range 4 {
					a.Allocate()
				}
				a.Release(2)
				a.Release(1)
				a.Release(3)
				hw, ok := a.HighWater()
				require.True(t, ok)
				assert.Equal(t, uint32(0), hw)
				assert.Equal(t, 0, a.Free())
				assert.Equal(t, 1, a.Outstanding())
				assert.Equal(t, uint32(1), a.Allocate())
			},
		},
		{
			name: "collapse to empty resets",
			check: func(t *testing.T, a *KeyAllocator) {
				a.Allocate()
				a.Allocate()
				a.Release(0)
				a.Release(1)
				_, ok := a.HighWater()
				assert.False(t, ok)
				assert.Equal(t, 0, a.Free())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NewKeyAllocator())
		})
	}
}

func TestKeyAllocatorNeverDuplicatesOutstanding(t *testing.T) {
	a := NewKeyAllocator()
	held := map[uint32]bool{}

	// Deterministic churn: allocate two, release one, in a shifting pattern.
	for i := range 200 {
		for range 2 {
			k := a.Allocate()
			require.False(t, held[k], "key %d handed out twice", k)
			held[k] = true
		}
		for k := range held {
			if (int(k)+i)%3 == 0 {
				a.Release(k)
				delete(held, k)
				break
			}
		}
		hw, ok := a.HighWater()
		if ok {
			for _, f := range a.free {
				assert.Less(t, f, hw)
			}
		}
		assert.Equal(t, len(held), a.Outstanding())
	}
}
