package rollback

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFrameOutOfWindow is returned (wrapped with the offending frame
// and window bounds via errors.Wrapf) when a caller asks for the state
// or hash of a frame outside GetState's window. A remote input for a
// frame too old to still be in the ring buffer is discarded and
// counted without an error, and inputs for a frame ahead of the
// current simulation are buffered — see Controller.pendingFuture.
var ErrFrameOutOfWindow = errors.New("frame outside rollback window")

// DesyncError reports a confirmed state hash mismatch against a peer
// at a specific frame. It is a distinct type (rather than a wrapped
// sentinel) because callers generally want the hashes themselves, not
// just the fact that they differed.
type DesyncError struct {
	Frame      int32
	LocalHash  uint32
	RemoteHash uint32
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("desync at frame %d: local=%08x remote=%08x", e.Frame, e.LocalHash, e.RemoteHash)
}
