// Package rollback implements the deterministic rollback controller:
// a ring buffer of simulated GameState/InputFrame history, one-frame
// prediction, and restore-then-resimulate correction when a remote
// input arrives that differs from what was predicted.
package rollback

import (
	"sync"

	"fightcore/internal/simcore"

	"github.com/pkg/errors"
)

// DefaultWindowSize is the number of frames of history kept for
// rollback, the fixed N = 120 spec.md §4.9 pins — 2 seconds at 60Hz,
// long enough to absorb typical internet jitter between peers without
// growing unbounded.
const DefaultWindowSize = 120

// Controller owns the authoritative simulation history for one match
// and the two players' character/stage data needed to re-run Tick.
type Controller struct {
	mu sync.Mutex

	defs    [2]simcore.CharacterDef
	mapData simcore.MapData
	library simcore.ActionLibrary

	// seed is the pre-match state — conceptually frame -1, the base
	// the first TickPrediction call is run against. It is never itself
	// placed in the states ring buffer.
	seed simcore.GameState

	// windowSize is the spec-pinned N: the oldest frame still accepted
	// by SubmitRemoteInputs is currentFrame-windowSize inclusive, and
	// the oldest GetState returns is one newer than that
	// (spec.md §8 scenario 6 and §9's "older than
	// current_frame - N are discarded"). Resimulating a correction at
	// that oldest accepted frame needs the state preceding it too (the
	// base resimulateFrom restores from), so the ring buffers hold
	// windowSize+2 slots — one more than N so currentFrame-windowSize
	// and currentFrame never alias the same slot, and one more still so
	// that frame's predecessor, currentFrame-windowSize-1, is still
	// live rather than already overwritten by the newest tick.
	windowSize   int32
	capacity     int32
	states       []simcore.GameState
	inputs       []simcore.InputFrame
	currentFrame int32

	// confirmedFrame is the highest frame whose remote input is known
	// to be final rather than predicted.
	confirmedFrame int32

	// pendingFuture holds remote inputs that arrived for a frame beyond
	// currentFrame — the local simulation hasn't reached that frame yet,
	// so there is nothing to restore or resimulate. TickPrediction
	// consults this map instead of repeating the previous frame's
	// remote input whenever an entry is waiting.
	pendingFuture map[int32]uint16

	eventLog *simcore.EventLog
	metrics  *Metrics
}

// NewController seeds a controller with the given pre-match state.
// The first TickPrediction call produces frame 0. windowSize <= 0
// uses DefaultWindowSize.
func NewController(initial simcore.GameState, defs [2]simcore.CharacterDef, mapData simcore.MapData, library simcore.ActionLibrary, windowSize int32, eventLog *simcore.EventLog, metrics *Metrics) *Controller {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	capacity := windowSize + 2

	return &Controller{
		seed:         initial,
		defs:         defs,
		mapData:      mapData,
		library:      library,
		windowSize:    windowSize,
		capacity:      capacity,
		states:        make([]simcore.GameState, capacity),
		inputs:        make([]simcore.InputFrame, capacity),
		currentFrame:  -1,
		pendingFuture: make(map[int32]uint16),
		eventLog:      eventLog,
		metrics:       metrics,
	}
}

func (c *Controller) slot(frame int32) int32 {
	return frame % c.capacity
}

// inWindow reports whether frame is within [currentFrame-windowSize,
// currentFrame], the range spec.md §8 scenario 6 and §9 require to
// still be acceptable to SubmitRemoteInputs. GetState additionally
// excludes the oldest of these frames.
func (c *Controller) inWindow(frame int32) bool {
	oldest := c.currentFrame - c.windowSize
	if oldest < 0 {
		oldest = 0
	}
	return frame >= oldest && frame <= c.currentFrame
}

// CurrentFrame returns the highest simulated frame index.
func (c *Controller) CurrentFrame() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentFrame
}

// TickPrediction advances the simulation by one frame using the local
// player's actual input and a prediction (repeat of the last known
// value) for the remote player's input. Returns a copy of the
// resulting state.
func (c *Controller) TickPrediction(localPlayer int, localInput uint16) simcore.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()

	remotePlayer := 1 - localPlayer

	var base simcore.GameState
	var predictedRemote uint16
	if c.currentFrame < 0 {
		base = c.seed
	} else {
		base = c.states[c.slot(c.currentFrame)]
		predictedRemote = c.inputs[c.slot(c.currentFrame)].InputFor(remotePlayer)
	}

	targetFrame := c.currentFrame + 1

	// A remote input for this exact frame may already have arrived
	// ahead of local simulation reaching it (fast peer, slow local
	// tick). Use it directly instead of predicting, and treat the
	// frame as confirmed on arrival — there is nothing to resimulate
	// since this is the first time the frame is being simulated.
	confirmed := false
	if actual, ok := c.pendingFuture[targetFrame]; ok {
		predictedRemote = actual
		delete(c.pendingFuture, targetFrame)
		confirmed = true
	}

	next := simcore.InputFrame{FrameNumber: targetFrame}
	c.setInput(&next, localPlayer, localInput)
	c.setInput(&next, remotePlayer, predictedRemote)

	state := simcore.Tick(base, c.defs, c.mapData, c.library, next)

	c.currentFrame = targetFrame
	c.states[c.slot(c.currentFrame)] = state
	c.inputs[c.slot(c.currentFrame)] = next
	if confirmed && c.currentFrame > c.confirmedFrame {
		c.confirmedFrame = c.currentFrame
	}

	return state
}

// TickLocal advances the simulation by one frame using authoritative
// input for both players, for local-only play with no remote peer to
// predict for. Both inputs are treated as confirmed: the frame is
// marked confirmed immediately, so a later SubmitRemoteInputs call
// for it (there should never be one in local play) would be a no-op
// unless the value actually changes.
func (c *Controller) TickLocal(p0Input, p1Input uint16) simcore.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()

	var base simcore.GameState
	if c.currentFrame < 0 {
		base = c.seed
	} else {
		base = c.states[c.slot(c.currentFrame)]
	}

	next := simcore.InputFrame{
		FrameNumber:   c.currentFrame + 1,
		Player0Inputs: p0Input,
		Player1Inputs: p1Input,
	}

	state := simcore.Tick(base, c.defs, c.mapData, c.library, next)

	c.currentFrame++
	c.states[c.slot(c.currentFrame)] = state
	c.inputs[c.slot(c.currentFrame)] = next
	if c.currentFrame > c.confirmedFrame {
		c.confirmedFrame = c.currentFrame
	}

	return state
}

func (c *Controller) setInput(f *simcore.InputFrame, player int, word uint16) {
	if player == 0 {
		f.Player0Inputs = word
	} else {
		f.Player1Inputs = word
	}
}

// SubmitRemoteInputs applies a confirmed remote input for a past or
// current frame. If it matches what was already predicted, nothing
// resimulates. If it differs, the controller restores the state at
// frame-1 and resimulates forward through currentFrame with the
// corrected input, reusing every other frame's already-known inputs.
// An input for a frame older than the window is discarded: the drop
// is logged and counted, the state is left unchanged, and nil is
// returned.
func (c *Controller) SubmitRemoteInputs(frame int32, remotePlayer int, remoteInput uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if frame > c.currentFrame {
		// Local simulation hasn't reached this frame yet. Buffer the
		// input; TickPrediction will consume it directly instead of
		// predicting once it advances to this frame, so no rollback is
		// needed.
		c.pendingFuture[frame] = remoteInput
		return nil
	}

	if !c.inWindow(frame) {
		if c.eventLog != nil {
			oldest := c.currentFrame - c.windowSize
			if oldest < 0 {
				oldest = 0
			}
			c.eventLog.EmitSimple(simcore.EventTypeDroppedInput, frame, "", simcore.DroppedInputPayload{
				RequestedFrame: frame,
				OldestLegal:    oldest,
				NewestLegal:    c.currentFrame,
			})
		}
		if c.metrics != nil {
			c.metrics.DroppedInputs.Inc()
		}
		return nil
	}

	existing := c.inputs[c.slot(frame)].InputFor(remotePlayer)
	if existing == remoteInput && frame <= c.confirmedFrame {
		return nil
	}

	c.inputs[c.slot(frame)].FrameNumber = frame
	c.setInput(&c.inputs[c.slot(frame)], remotePlayer, remoteInput)

	if existing != remoteInput {
		c.resimulateFrom(frame)

		if c.eventLog != nil {
			c.eventLog.EmitSimple(simcore.EventTypeRollback, frame, "", simcore.RollbackPayload{
				FromFrame: frame,
				ToFrame:   c.currentFrame,
				Depth:     c.currentFrame - frame + 1,
			})
		}
		if c.metrics != nil {
			c.metrics.RollbackDepth.Observe(float64(c.currentFrame - frame + 1))
			c.metrics.Rollbacks.Inc()
		}
	}

	if frame > c.confirmedFrame {
		c.confirmedFrame = frame
	}
	return nil
}

// resimulateFrom restores the state preceding frame and re-runs Tick
// for every frame from there through currentFrame using the inputs
// ring buffer (already corrected at the caller's target frame).
func (c *Controller) resimulateFrom(frame int32) {
	var state simcore.GameState
	if frame == 0 {
		state = c.seed
	} else {
		state = c.states[c.slot(frame-1)]
	}

	for f := frame; f <= c.currentFrame; f++ {
		state = simcore.Tick(state, c.defs, c.mapData, c.library, c.inputs[c.slot(f)])
		c.states[c.slot(f)] = state
	}
}

// ConfirmFrame marks a frame's remote input as final, meaning a later
// SubmitRemoteInputs call with the same value for that frame will not
// be treated as a fresh correction.
func (c *Controller) ConfirmFrame(frame int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if frame > c.confirmedFrame {
		c.confirmedFrame = frame
	}
}

// GetState returns a copy of the state at frame, if it is within
// [currentFrame-windowSize+1, currentFrame] — one frame narrower than
// the range SubmitRemoteInputs accepts.
func (c *Controller) GetState(frame int32) (simcore.GameState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inWindow(frame) || frame == c.currentFrame-c.windowSize {
		return simcore.GameState{}, errors.Wrapf(ErrFrameOutOfWindow, "frame %d (window [%d,%d])", frame, c.currentFrame-c.windowSize+1, c.currentFrame)
	}
	return c.states[c.slot(frame)], nil
}

// StateHashAt returns the canonical hash of the state at frame, for
// exchanging with a peer to detect a desync.
func (c *Controller) StateHashAt(frame int32) (uint32, error) {
	state, err := c.GetState(frame)
	if err != nil {
		return 0, err
	}
	return simcore.StateHash(&state), nil
}

// CheckPeerHash compares a peer-reported hash for frame against the
// local state, emitting a desync diagnostic event on mismatch.
func (c *Controller) CheckPeerHash(frame int32, peerHash uint32) error {
	localHash, err := c.StateHashAt(frame)
	if err != nil {
		return err
	}

	if localHash != peerHash {
		if c.eventLog != nil {
			c.eventLog.EmitSimple(simcore.EventTypeDesync, frame, "", simcore.DesyncPayload{
				LocalHash:  localHash,
				RemoteHash: peerHash,
			})
		}
		if c.metrics != nil {
			c.metrics.Desyncs.Inc()
		}
		return &DesyncError{Frame: frame, LocalHash: localHash, RemoteHash: peerHash}
	}
	return nil
}
