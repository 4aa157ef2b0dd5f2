// Package simcore implements the deterministic per-frame simulation
// pipeline: the data model, physics, combat resolution, the
// projectile pool, the action evaluator, Simulation.Tick itself, and
// the canonical state hash. Every quantity here is a fixed-point
// integer (internal/fixedpoint) or a plain counter — nothing in this
// package touches a float, the wall clock, or an unseeded random
// source.
package simcore

// Facing values.
const (
	FacingLeft  int32 = -1
	FacingRight int32 = 1
)

// Input bit layout (spec-stable, externally visible).
const (
	InputUp      uint16 = 0x0001
	InputDown    uint16 = 0x0002
	InputLeft    uint16 = 0x0004
	InputRight   uint16 = 0x0008
	InputJump    uint16 = 0x0010
	InputAttack  uint16 = 0x0020
	InputSpecial uint16 = 0x0040
	InputDefend  uint16 = 0x0080
)

// MaxProjectiles is the fixed capacity of the projectile pool.
const MaxProjectiles = 32

// InputBufferSize is the length of the per-player recent-input shift
// register used for move recognition.
const InputBufferSize = 4

// PlayerState is the full per-player simulation state. Exactly two
// exist per match, at indices 0 and 1.
type PlayerState struct {
	PosX, PosY int64
	VelX, VelY int64

	Facing   int32
	Grounded bool

	Health           int32
	HitstunRemaining int32

	CurrentActionID uint32
	ActionFrame     int32

	Meter int32

	// InputBuffer is a small shift register of recent input words,
	// newest at index 0, used for move recognition.
	InputBuffer [InputBufferSize]uint16

	// Combo tracking (fixed-point/tick supplement to spec.md's combat
	// resolver — see SPEC_FULL.md §3).
	ComboCount        int32
	ComboWindowFrames int32
}

// Alive reports whether the player is still in the fight.
func (p *PlayerState) Alive() bool {
	return p.Health > 0
}

// PushInput shifts a new input word into the player's input buffer.
func (p *PlayerState) PushInput(word uint16) {
	for i := InputBufferSize - 1; i > 0; i-- {
		p.InputBuffer[i] = p.InputBuffer[i-1]
	}
	p.InputBuffer[0] = word
}

// ProjectileState is one slot of the fixed-capacity projectile pool.
type ProjectileState struct {
	Active bool

	PosX, PosY int64
	VelX, VelY int64

	OwnerPlayer int32
	Damage      int32

	LifetimeFrames int32

	// Width/Height define the projectile's AABB, centered on its
	// position.
	Width, Height int64
}

// GameState is the complete, value-semantic simulation state for one
// frame. Copying a GameState duplicates the entire state with no
// shared references — every field is either a scalar or a fixed-size
// array, never a slice or pointer.
type GameState struct {
	FrameIndex uint32

	Players [2]PlayerState

	Projectiles           [MaxProjectiles]ProjectileState
	ActiveProjectileCount int32

	RngState uint32
}

// InputFrame carries one frame's worth of input for both players.
type InputFrame struct {
	FrameNumber    int32
	Player0Inputs  uint16
	Player1Inputs  uint16
}

// InputFor returns the stored input word for the given player index
// (0 or 1).
func (f InputFrame) InputFor(playerIndex int) uint16 {
	if playerIndex == 0 {
		return f.Player0Inputs
	}
	return f.Player1Inputs
}
