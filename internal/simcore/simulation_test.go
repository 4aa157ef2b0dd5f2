package simcore

import "testing"

// TestTickAllocatesNothing asserts spec §4.7/§5's "no step may
// allocate" requirement: Tick's hitbox/spawn scratch buffers are
// fixed-size arrays, not slices grown by append, so running a mix of
// idle, moving, and attacking frames should cost zero heap
// allocations per call.
func TestTickAllocatesNothing(t *testing.T) {
	def := testCharacterDef()
	def.DefaultAttackAction = "jab"
	def = def.ResolveActionIDs()
	defs := [2]CharacterDef{def, def}
	lib := ActionLibrary{
		def.DefaultAttackActionID: {
			TotalFrames: 3,
			Timeline:    []FrameState{{}, {}, {Cancelable: true}},
			Hitboxes: []HitboxEvent{
				{StartFrame: 0, EndFrame: 2, Width: 2000, Height: 2000, Damage: 10, Hitstun: 5},
			},
		},
	}
	mapData := flatMapData()

	state := GameState{}
	state.Players[0] = PlayerState{PosX: 0, Health: 1000, Facing: FacingRight}
	state.Players[1] = PlayerState{PosX: 1000, Health: 1000, Facing: FacingLeft}

	inputs := []InputFrame{
		{Player0Inputs: InputRight},
		{Player0Inputs: InputAttack, Player1Inputs: InputLeft},
		{Player1Inputs: InputJump},
	}

	i := 0
	allocs := testing.AllocsPerRun(100, func() {
		in := inputs[i%len(inputs)]
		i++
		state = Tick(state, defs, mapData, lib, in)
	})

	if allocs != 0 {
		t.Errorf("expected Tick to allocate nothing, averaged %v allocs/op", allocs)
	}
}

func flatMapData() MapData {
	return MapData{
		KillFloorY: -1000000,
	}
}

func TestTickAdvancesFrameIndex(t *testing.T) {
	defs := [2]CharacterDef{testCharacterDef(), testCharacterDef()}
	lib := ActionLibrary{}
	state := GameState{FrameIndex: 41}

	next := Tick(state, defs, flatMapData(), lib, InputFrame{FrameNumber: 41})

	if next.FrameIndex != 42 {
		t.Errorf("expected frame_index 42, got %d", next.FrameIndex)
	}
}

func TestTickDoesNotMutateInputState(t *testing.T) {
	defs := [2]CharacterDef{testCharacterDef(), testCharacterDef()}
	lib := ActionLibrary{}
	state := GameState{FrameIndex: 5}
	state.Players[0].PosX = 100

	_ = Tick(state, defs, flatMapData(), lib, InputFrame{})

	if state.Players[0].PosX != 100 || state.FrameIndex != 5 {
		t.Error("expected Tick to leave the caller's original state untouched")
	}
}

func TestTickIsDeterministicGivenSameInput(t *testing.T) {
	defs := [2]CharacterDef{testCharacterDef(), testCharacterDef()}
	lib := ActionLibrary{}
	state := GameState{FrameIndex: 5}
	state.Players[0].PosX = 100
	state.Players[1].PosX = -2500

	input := InputFrame{FrameNumber: 5, Player0Inputs: InputRight, Player1Inputs: InputLeft}

	a := Tick(state, defs, flatMapData(), lib, input)
	b := Tick(state, defs, flatMapData(), lib, input)

	if a != b {
		t.Error("expected identical input to produce identical output state")
	}
}

func TestTickDecaysHitstun(t *testing.T) {
	defs := [2]CharacterDef{testCharacterDef(), testCharacterDef()}
	lib := ActionLibrary{}
	state := GameState{}
	state.Players[0].HitstunRemaining = 3

	next := Tick(state, defs, flatMapData(), lib, InputFrame{})

	if next.Players[0].HitstunRemaining != 2 {
		t.Errorf("expected hitstun to decay to 2, got %d", next.Players[0].HitstunRemaining)
	}
}

func TestTickKillsPlayerBelowKillFloor(t *testing.T) {
	defs := [2]CharacterDef{testCharacterDef(), testCharacterDef()}
	lib := ActionLibrary{}
	state := GameState{}
	state.Players[0].Health = 1000
	state.Players[0].PosY = -2000000
	state.Players[0].Grounded = true

	mapData := MapData{KillFloorY: -1000000}
	next := Tick(state, defs, mapData, lib, InputFrame{})

	if next.Players[0].Health != 0 {
		t.Errorf("expected player below kill floor to die, got health %d", next.Players[0].Health)
	}
}
