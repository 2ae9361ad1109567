// Package animation associates hitboxes in per-frame sprite data with typed
// records held in a store.Registry.
//
// Each hitbox carries a weak reference (table name plus key) to its record.
// Removing a hitbox releases the key for reuse but leaves the row in its
// table; the row is overwritten when the key is next allocated.
package animation

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/boxdata/pkg/store"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// RecordRef names a row: the table it lives in and its key there.
type RecordRef struct {
	Table string
	Key   uint32
}

// Hitbox pairs a bounding box with the record describing it. ID is a UUID v7
// assigned on creation; it stays stable while list indices shift.
type Hitbox struct {
	ID     string
	Bound  types.BoundingBox
	Record RecordRef
}

// Frame is one cell of the animation: its rectangle on the sprite sheet, the
// sprite centre, and the indices of the hitboxes active in it. Indices are
// not checked against the hitbox list.
type Frame struct {
	Centre         [2]uint32
	Rect           types.AABB
	ActiveHitboxes []int
}

// Options configures an Animation.
type Options struct {
	// Logger receives allocation events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Animation is the record set for one animation: frames, hitboxes, the
// registry holding hitbox records, and one key allocator per table.
type Animation struct {
	fps        uint16
	frames     []Frame
	hitboxes   []Hitbox
	allocators map[string]*store.KeyAllocator
	data       *store.Registry[uint32]
	logger     *slog.Logger
}

// New returns an empty animation played back at fps frames per second.
func New(fps uint16, o Options) *Animation {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &Animation{
		fps:        fps,
		allocators: make(map[string]*store.KeyAllocator),
		data:       store.NewRegistry[uint32](),
		logger:     o.Logger,
	}
}

// FPS returns the playback rate.
func (a *Animation) FPS() uint16 { return a.fps }

// Data returns the registry holding hitbox records. Rows changed directly
// through it are not reconciled with hitboxes.
func (a *Animation) Data() *store.Registry[uint32] { return a.data }

// RegisterTable creates an empty table under name, replacing any existing
// one. Keys already handed out for that name stay with its allocator.
func (a *Animation) RegisterTable(name string) *store.Table[uint32] {
	return a.data.Register(name)
}

// Allocator returns the key allocator for a table, if one has been created.
func (a *Animation) Allocator(table string) (*store.KeyAllocator, bool) {
	ka, ok := a.allocators[table]
	return ka, ok
}

// AllocateRecord mints a key for table and creates a default row under it.
// It reports false, without consuming a key, if no such table is registered.
func (a *Animation) AllocateRecord(table string) (RecordRef, bool) {
	tbl, ok := a.data.Table(table)
	if !ok {
		a.logger.LogAttrs(context.Background(), slog.LevelWarn, "animation: allocate on unknown table", slog.String("table", table))
		return RecordRef{}, false
	}
	ka, ok := a.allocators[table]
	if !ok {
		ka = store.NewKeyAllocator()
		a.allocators[table] = ka
	}
	key := ka.Allocate()
	tbl.CreateRow(key)
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "animation: allocated record", slog.String("table", table), slog.Uint64("key", uint64(key)))
	return RecordRef{Table: table, Key: key}, true
}

// ReleaseRecord returns ref's key to its allocator. The row stays in the
// table until the key is allocated again.
func (a *Animation) ReleaseRecord(ref RecordRef) {
	ka, ok := a.allocators[ref.Table]
	if !ok {
		return
	}
	ka.Release(ref.Key)
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "animation: released record", slog.String("table", ref.Table), slog.Uint64("key", uint64(ref.Key)))
}

// Record returns the schema and row referenced by ref.
func (a *Animation) Record(ref RecordRef) ([]types.Field, store.Row, bool) {
	return a.data.RowWithSchema(ref.Table, ref.Key)
}
