package simcore

import "testing"

// BENCHMARK SUITE: CRITICAL PATH PERFORMANCE TESTS
// Run with: go test -bench=. -benchmem ./internal/simcore/...

func BenchmarkTick_Idle(b *testing.B) {
	benchmarkTick(b, InputFrame{})
}

func BenchmarkTick_Walking(b *testing.B) {
	benchmarkTick(b, InputFrame{Player0Inputs: InputRight, Player1Inputs: InputLeft})
}

func BenchmarkTick_Attacking(b *testing.B) {
	benchmarkTick(b, InputFrame{Player0Inputs: InputAttack, Player1Inputs: InputDefend})
}

func benchmarkTick(b *testing.B, input InputFrame) {
	def := scenarioCharacterDef()
	defs := [2]CharacterDef{def, def}
	lib := DefaultActionLibrary(def)
	stage := groundStage()

	var state GameState
	state.Players[0] = PlayerState{PosX: 0, PosY: 1000, Facing: FacingRight, Health: def.BaseHealth, Grounded: true}
	state.Players[1] = PlayerState{PosX: 2000, PosY: 1000, Facing: FacingLeft, Health: def.BaseHealth, Grounded: true}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		input.FrameNumber = int32(i)
		state = Tick(state, defs, stage, lib, input)
	}
}

// BenchmarkTick_WithActiveProjectile seeds one active fireball so the
// projectile-advance path is on the hot loop from the first iteration,
// not just whichever frames happen to spawn or despawn one.
func BenchmarkTick_WithActiveProjectile(b *testing.B) {
	def := scenarioCharacterDef()
	defs := [2]CharacterDef{def, def}
	lib := DefaultActionLibrary(def)
	stage := groundStage()

	var state GameState
	state.Players[0] = PlayerState{PosX: 0, PosY: 1000, Facing: FacingRight, Health: def.BaseHealth, Grounded: true}
	state.Players[1] = PlayerState{PosX: 8000, PosY: 1000, Facing: FacingLeft, Health: def.BaseHealth, Grounded: true}
	state.Projectiles[0] = ProjectileState{Active: true, OwnerPlayer: 0, PosX: 4000, PosY: 1000, VelX: 1000, Damage: 15, LifetimeFrames: 90, Width: 800, Height: 800}
	state.ActiveProjectileCount = 1

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		state = Tick(state, defs, stage, lib, InputFrame{FrameNumber: int32(i)})
	}
}

func BenchmarkStateHash(b *testing.B) {
	def := scenarioCharacterDef()
	var state GameState
	state.Players[0] = PlayerState{PosX: 0, PosY: 1000, Facing: FacingRight, Health: def.BaseHealth}
	state.Players[1] = PlayerState{PosX: 2000, PosY: 1000, Facing: FacingLeft, Health: def.BaseHealth}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = StateHash(&state)
	}
}
