package simcore

// maxHitboxesPerTick and maxSpawnsPerTick bound how many ActiveHitbox/
// PendingSpawn entries both players combined can emit in a single
// Tick. Sized generously above what any authored action timeline in
// practice needs; an action that somehow emits more than its share
// simply has the excess dropped for that tick rather than growing the
// buffer, the same way a full projectile pool drops a spawn (spec
// §4.6).
const (
	maxHitboxesPerTick = 16
	maxSpawnsPerTick   = 8
)

// Tick advances state by exactly one frame given the frame's input and
// returns the resulting state. It is a pure function: state is passed
// by value (GameState has no pointers or slices, so this is a true
// deep copy) and the caller's original is never mutated. This is the
// single entry point the rollback controller re-invokes when
// resimulating frames after a misprediction.
//
// Order, per spec §4.7: apply movement inputs, advance actions
// (starting/continuing attacks and emitting hitboxes/spawns), run
// physics, resolve melee combat, step the projectile pool, decay
// hitstun and combo windows, then advance frame_index.
//
// hitboxes/spawns are backed by fixed-size arrays sized up front, not
// grown with append on a nil slice, so collecting them across both
// players never allocates (spec §4.7/§5: no step may allocate).
func Tick(state GameState, defs [2]CharacterDef, mapData MapData, library ActionLibrary, input InputFrame) GameState {
	var hitboxArr [maxHitboxesPerTick]ActiveHitbox
	var spawnArr [maxSpawnsPerTick]PendingSpawn
	hitboxes := hitboxArr[:0]
	spawns := spawnArr[:0]

	for i := range state.Players {
		p := &state.Players[i]
		in := input.InputFor(i)

		ApplyMovementInput(p, in, defs[i])

		AdvanceAction(p, in, int32(i), defs[i], library, &hitboxes, &spawns)
	}

	for i := range state.Players {
		RunPhysics(&state.Players[i], defs[i], mapData)
	}

	ResolveCombat(&state.Players, defs, hitboxes)

	for _, sp := range spawns {
		SpawnProjectile(&state, sp)
	}
	StepProjectiles(&state, defs, mapData)

	for i := range state.Players {
		p := &state.Players[i]
		if p.HitstunRemaining > 0 {
			p.HitstunRemaining--
		}
	}
	DecayComboWindows(&state.Players)

	state.FrameIndex++
	return state
}
