package simcore

import "sync/atomic"

// SnapshotPool is a lock-free triple buffer handing completed
// GameState values from the simulation thread to a renderer or
// debug API thread. GameState is a plain value (no pointers or
// slices), so publishing a snapshot is just a struct copy into the
// next slot — there is nothing for the reader to alias or race on
// once the index swap below is visible.
type SnapshotPool struct {
	slots    [3]GameState
	writeIdx uint32 // atomic - producer index
	readIdx  uint32 // atomic - consumer index
	sequence uint64 // atomic - monotonic sequence, one per publish
}

// NewSnapshotPool returns an empty pool. Readers see the zero-value
// GameState until the first PublishWrite.
func NewSnapshotPool() *SnapshotPool {
	return &SnapshotPool{}
}

// AcquireWrite returns the next slot for the producer to fill. Only
// the simulation goroutine may call this.
func (p *SnapshotPool) AcquireWrite() *GameState {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	return &p.slots[idx]
}

// PublishWrite makes the slot most recently returned by AcquireWrite
// visible to readers, and bumps the monotonic sequence counter.
func (p *SnapshotPool) PublishWrite() {
	atomic.AddUint64(&p.sequence, 1)
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns a value copy of the most recently published
// state. Safe to call from any number of reader goroutines; it never
// blocks the writer. Returning a copy rather than a pointer into the
// slot is deliberate: with only three slots, a writer can cycle back
// around to the slot a slow reader is still holding a pointer into,
// which would let the live state mutate underneath an already-handed-
// out snapshot. A copy made under one atomic load of readIdx is
// immune to that regardless of how long the reader holds onto it.
func (p *SnapshotPool) AcquireRead() GameState {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return p.slots[idx]
}

// Sequence returns the monotonic publish counter, useful for readers
// that want to detect whether a new snapshot has landed since they
// last looked.
func (p *SnapshotPool) Sequence() uint64 {
	return atomic.LoadUint64(&p.sequence)
}
