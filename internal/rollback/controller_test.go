package rollback

import (
	"testing"

	"fightcore/internal/simcore"

	"github.com/prometheus/client_golang/prometheus"
)

func testDefs() [2]simcore.CharacterDef {
	def := simcore.CharacterDef{
		WalkSpeed: 3000, Gravity: 800, MaxFallSpeed: 20000,
		Weight: 1000, WeightFactorBase: 1000, HitstunMultiplier: 1000,
		HitboxWidth: 2000, HitboxHeight: 4000,
		FrictionGround: 600, FrictionAir: 100,
	}
	return [2]simcore.CharacterDef{def, def}
}

func newTestController(t *testing.T, windowSize int32) *Controller {
	t.Helper()
	defs := testDefs()
	state := simcore.GameState{}
	state.Players[1].PosX = 50000
	lib := simcore.ActionLibrary{}
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewController(state, defs, simcore.MapData{KillFloorY: -1000000}, lib, windowSize, nil, metrics)
}

func TestTickPredictionAdvancesFrame(t *testing.T) {
	c := newTestController(t, 64)

	c.TickPrediction(0, simcore.InputRight)
	if c.CurrentFrame() != 0 {
		t.Fatalf("expected first tick to land on frame 0, got %d", c.CurrentFrame())
	}

	c.TickPrediction(0, simcore.InputRight)
	if c.CurrentFrame() != 1 {
		t.Fatalf("expected second tick to land on frame 1, got %d", c.CurrentFrame())
	}
}

func TestGetStateOutOfWindowErrors(t *testing.T) {
	c := newTestController(t, 4)
	for i := 0; i < 10; i++ {
		c.TickPrediction(0, 0)
	}

	if _, err := c.GetState(0); err == nil {
		t.Error("expected frame 0 to have aged out of a 4-frame window after 10 ticks")
	}
	if _, err := c.GetState(c.CurrentFrame()); err != nil {
		t.Errorf("expected the current frame to still be in window, got error: %v", err)
	}
}

func TestSubmitRemoteInputsMatchingPredictionNoRollback(t *testing.T) {
	c := newTestController(t, 64)
	c.TickPrediction(0, 0)
	c.TickPrediction(0, 0)

	// Predicted remote input for both frames was 0 (no input yet); confirm frame 0 with the same value.
	if err := c.SubmitRemoteInputs(0, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubmitRemoteInputsMispredictionResimulates(t *testing.T) {
	c := newTestController(t, 64)

	// Frame 0: predicted remote input is 0 (repeat of nothing).
	c.TickPrediction(0, 0)
	before, err := c.GetState(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Advance a few more frames locally before the real remote input for
	// frame 0 arrives.
	c.TickPrediction(0, 0)
	c.TickPrediction(0, 0)

	if err := c.SubmitRemoteInputs(0, 1, simcore.InputLeft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := c.GetState(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if before.Players[1].PosX == after.Players[1].PosX {
		t.Error("expected resimulation with corrected input to change player 1's trajectory")
	}
}

func TestSubmitRemoteInputsOutOfWindowIsRejected(t *testing.T) {
	c := newTestController(t, 4)
	for i := 0; i < 10; i++ {
		c.TickPrediction(0, 0)
	}

	before, err := c.StateHashAt(c.CurrentFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := c.SubmitRemoteInputs(0, 1, simcore.InputLeft); err != nil {
		t.Errorf("expected an aged-out frame to be discarded without an error, got %v", err)
	}

	after, err := c.StateHashAt(c.CurrentFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != before {
		t.Error("expected a discarded aged-out input to leave the state unchanged")
	}
}

func TestStateHashMatchesAcrossIndependentControllers(t *testing.T) {
	c1 := newTestController(t, 64)
	c2 := newTestController(t, 64)

	inputs := []uint16{simcore.InputRight, simcore.InputRight, 0, simcore.InputJump, 0}
	for _, in := range inputs {
		c1.TickPrediction(0, in)
		c2.TickPrediction(0, in)
	}

	for frame := int32(0); frame < int32(len(inputs)); frame++ {
		h1, err := c1.StateHashAt(frame)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h2, err := c2.StateHashAt(frame)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h1 != h2 {
			t.Fatalf("frame %d: expected identical hashes across independently ticked controllers, got %08x vs %08x", frame, h1, h2)
		}
	}
}

func TestCheckPeerHashDetectsDesync(t *testing.T) {
	c := newTestController(t, 64)
	c.TickPrediction(0, 0)

	err := c.CheckPeerHash(0, 0xDEADBEEF)
	if err == nil {
		t.Fatal("expected a desync error for a mismatched peer hash")
	}
	if _, ok := err.(*DesyncError); !ok {
		t.Errorf("expected *DesyncError, got %T", err)
	}
}

func TestSubmitRemoteInputsForFutureFrameIsBufferedNotDropped(t *testing.T) {
	c := newTestController(t, 64)
	c.TickPrediction(0, 0)

	// Peer is ahead: it has already confirmed input for frame 3, which
	// local simulation (at frame 0) hasn't reached yet.
	if err := c.SubmitRemoteInputs(3, 1, simcore.InputLeft); err != nil {
		t.Fatalf("expected a future-frame submission to be buffered, got error: %v", err)
	}

	c.TickPrediction(0, 0)
	c.TickPrediction(0, 0)
	after := c.TickPrediction(0, 0)

	// Tick increments FrameIndex after applying a frame's input, so the
	// state produced by simulating frame 3 carries FrameIndex 4.
	if after.FrameIndex != 4 {
		t.Fatalf("expected to have advanced past frame 3 (FrameIndex 4), got %d", after.FrameIndex)
	}
	if after.Players[1].Facing != simcore.FacingLeft {
		t.Error("expected the buffered LEFT input to have been applied directly on frame 3 instead of predicted")
	}
}

// TestSubmitRemoteInputsAtWindowBoundary is spec.md §8 end-to-end
// scenario 6: at the default N=120 window, a submission for exactly
// current_frame-120 is still accepted, while current_frame-121 is
// discarded with no state change beyond a dropped-input count.
func TestSubmitRemoteInputsAtWindowBoundary(t *testing.T) {
	c := newTestController(t, DefaultWindowSize)
	if DefaultWindowSize != 120 {
		t.Fatalf("expected the spec-pinned default window of 120, got %d", DefaultWindowSize)
	}

	for i := 0; i < 200; i++ {
		c.TickPrediction(0, 0)
	}

	current := c.CurrentFrame()

	if err := c.SubmitRemoteInputs(current-120, 1, simcore.InputLeft); err != nil {
		t.Errorf("expected frame current-120 (window edge) to be accepted, got error: %v", err)
	}

	before, err := c.StateHashAt(current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.SubmitRemoteInputs(current-121, 1, simcore.InputLeft); err != nil {
		t.Errorf("expected frame current-121 (one past the window edge) to be discarded without an error, got %v", err)
	}
	after, err := c.StateHashAt(current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after != before {
		t.Error("expected frame current-121 (one past the window edge) to be discarded with no state change")
	}
}

func TestConfirmFrameSuppressesRedundantRollback(t *testing.T) {
	c := newTestController(t, 64)
	c.TickPrediction(0, 0)
	c.ConfirmFrame(0)

	if err := c.SubmitRemoteInputs(0, 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
