package retained

import (
	"sync"

	"github.com/agiangrant/anchorui/scene"
)

// ============================================================================
// Entity Slice Pooling
// ============================================================================
//
// Every pass of a frame and every pointer event walks a snapshot of the
// scene. Snapshots come from this pool so a steady frame does not allocate.
//
// Usage:
//   ents := acquireEntitySlice()
//   defer func() { releaseEntitySlice(ents) }()
//   ents = s.scene.AppendEntities(ents, t)

var entitySlicePool = sync.Pool{
	New: func() any {
		s := make([]scene.Entity, 0, 64)
		return &s
	},
}

// acquireEntitySlice gets an empty entity slice from the pool.
// Caller must call releaseEntitySlice when done.
func acquireEntitySlice() []scene.Entity {
	return (*entitySlicePool.Get().(*[]scene.Entity))[:0]
}

// releaseEntitySlice returns an entity slice to the pool.
// The slice should not be used after calling this.
func releaseEntitySlice(s []scene.Entity) {
	// Only pool slices up to a reasonable size to avoid memory bloat
	if s == nil || cap(s) > 4096 {
		return
	}
	s = s[:0]
	entitySlicePool.Put(&s)
}
