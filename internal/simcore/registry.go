package simcore

import (
	"fightcore/internal/fixedpoint"
	"fightcore/internal/geometry"
)

// DefaultCharacter returns the stock character archetype used by the
// demo harness and debug API when no bespoke roster is supplied. It
// mirrors the teacher's static Weapons registry
// (internal/game/weapons.go): a plain value, not a pointer into shared
// state, so every caller gets its own copy.
func DefaultCharacter() CharacterDef {
	return CharacterDef{
		BaseHealth: 1000,

		WalkSpeed:    4 * fixedpoint.Scale,
		RunSpeed:     7 * fixedpoint.Scale,
		JumpForce:    16 * fixedpoint.Scale,
		Gravity:      800,
		MaxFallSpeed: 18 * fixedpoint.Scale,

		Weight:           1000,
		WeightFactorBase: 1000,

		HitstunMultiplier: fixedpoint.Scale,

		HitboxWidth:  2 * fixedpoint.Scale,
		HitboxHeight: 4 * fixedpoint.Scale,

		FrictionGround: 600,
		FrictionAir:    80,

		DefaultAttackAction:  "jab",
		DefaultSpecialAction: "fireball",
		DefaultDefendAction:  "guard",
	}
}

// DefaultActionLibrary returns the action timelines for the actions
// DefaultCharacter names, keyed by the resolved action IDs on def.
// def must already have gone through ResolveActionIDs (CharacterDef's
// own ID fields are what the library is keyed against).
func DefaultActionLibrary(def CharacterDef) ActionLibrary {
	lib := ActionLibrary{
		def.DefaultAttackActionID: {
			TotalFrames: 20,
			Timeline:    make([]FrameState, 20),
			Hitboxes: []HitboxEvent{
				{
					StartFrame: 5, EndFrame: 8,
					OffsetX: 2 * fixedpoint.Scale,
					Width:   2 * fixedpoint.Scale, Height: 2 * fixedpoint.Scale,
					Damage:          10,
					BaseKnockback:   500,
					KnockbackGrowth: 100,
					Hitstun:         20,
				},
			},
		},
		def.DefaultSpecialActionID: {
			TotalFrames: 30,
			Timeline:    make([]FrameState, 30),
			Spawns: []ProjectileSpawn{
				{
					Frame:    10,
					OffsetX:  2 * fixedpoint.Scale,
					VelX:     6 * fixedpoint.Scale,
					Damage:   15,
					Lifetime: 90,
				},
			},
		},
		def.DefaultDefendActionID: {
			TotalFrames: 15,
			Timeline:    make([]FrameState, 15),
		},
	}

	// The action timeline's last frame is cancelable so a held defend
	// doesn't lock a player out of acting once it completes.
	for id, action := range lib {
		if len(action.Timeline) == 0 {
			continue
		}
		action.Timeline[len(action.Timeline)-1].Cancelable = true
		lib[id] = action
	}

	return lib
}

// DefaultStage returns the flat test stage referenced by spec.md §8's
// end-to-end scenarios: a single ground solid spanning the playable
// width, and a kill floor well beneath it.
func DefaultStage() MapData {
	return MapData{
		Solids: []geometry.AABB{
			{
				MinX: -10000 * fixedpoint.Scale, MaxX: 10000 * fixedpoint.Scale,
				MinY: -2000 * fixedpoint.Scale, MaxY: 0,
			},
		},
		KillFloorY: -5000 * fixedpoint.Scale,
	}
}
