package simcore

import (
	"testing"

	"fightcore/internal/geometry"
)

// platformMapData returns a map with two disjoint solid platforms, one
// under x in [-5000,5000] and a second far to the right, leaving a gap
// with nothing to stand on in between.
func platformMapData() MapData {
	return MapData{
		Solids: []geometry.AABB{
			{MinX: -5000, MaxX: 5000, MinY: -2000, MaxY: 0},
			{MinX: 20000, MaxX: 30000, MinY: -2000, MaxY: 0},
		},
		KillFloorY: -1000000,
	}
}

func TestResolveCollisionYKeepsRestingPlayerGrounded(t *testing.T) {
	def := testCharacterDef()
	mapData := platformMapData()

	p := &PlayerState{PosX: 0, PosY: def.HitboxHeight / 2, Grounded: true}

	for i := 0; i < 5; i++ {
		ApplyGravity(p, def)
		ResolveCollisionY(p, def, mapData)
	}

	if !p.Grounded {
		t.Error("expected a player resting on a platform to stay grounded across repeated ticks")
	}
	if p.VelY != 0 {
		t.Errorf("expected a resting player's VelY to settle at 0, got %d", p.VelY)
	}
}

func TestResolveCollisionYDropsPlayerWalkingOffLedge(t *testing.T) {
	def := testCharacterDef()
	mapData := platformMapData()

	p := &PlayerState{PosX: 4900, PosY: def.HitboxHeight / 2, Grounded: true}

	ApplyGravity(p, def)
	ResolveCollisionY(p, def, mapData)
	if !p.Grounded {
		t.Fatal("expected the player to still be grounded while standing on the platform")
	}

	// Walk past the platform's right edge into the gap.
	p.PosX = 8000

	for i := 0; i < 3; i++ {
		ApplyGravity(p, def)
		ResolveCollisionY(p, def, mapData)
	}

	if p.Grounded {
		t.Error("expected a player who walked off the platform's edge to no longer be grounded")
	}
	if p.VelY >= 0 {
		t.Errorf("expected gravity to pull the ungrounded player downward, got VelY %d", p.VelY)
	}
}
