package simcore

import "testing"

func TestSnapshotPoolPublishAndRead(t *testing.T) {
	pool := NewSnapshotPool()

	w := pool.AcquireWrite()
	w.FrameIndex = 7
	pool.PublishWrite()

	r := pool.AcquireRead()
	if r.FrameIndex != 7 {
		t.Errorf("expected published frame_index 7, got %d", r.FrameIndex)
	}
	if pool.Sequence() != 1 {
		t.Errorf("expected sequence 1 after first publish, got %d", pool.Sequence())
	}
}

func TestSnapshotPoolReadBeforePublishSeesZeroValue(t *testing.T) {
	pool := NewSnapshotPool()

	r := pool.AcquireRead()
	if r.FrameIndex != 0 {
		t.Errorf("expected zero-value state before first publish, got frame_index %d", r.FrameIndex)
	}
}

func TestSnapshotPoolReadIsIsolatedFromLaterWrites(t *testing.T) {
	pool := NewSnapshotPool()

	w := pool.AcquireWrite()
	w.FrameIndex = 1
	w.Players[0].Health = 1000
	pool.PublishWrite()

	snap := pool.AcquireRead()

	// Cycle enough writes to wrap back around every slot at least once.
	for i := uint32(2); i <= 8; i++ {
		w := pool.AcquireWrite()
		w.FrameIndex = i
		w.Players[0].Health = 1
		pool.PublishWrite()
	}

	if snap.FrameIndex != 1 || snap.Players[0].Health != 1000 {
		t.Errorf("expected the earlier snapshot to stay frozen at frame 1/health 1000, got frame %d health %d", snap.FrameIndex, snap.Players[0].Health)
	}
}

func TestSnapshotPoolMultiplePublishesRotateSlots(t *testing.T) {
	pool := NewSnapshotPool()

	for i := uint32(1); i <= 5; i++ {
		w := pool.AcquireWrite()
		w.FrameIndex = i
		pool.PublishWrite()

		r := pool.AcquireRead()
		if r.FrameIndex != i {
			t.Fatalf("publish %d: expected frame_index %d, got %d", i, i, r.FrameIndex)
		}
	}
}
