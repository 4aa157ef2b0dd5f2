package simcore

import "fightcore/internal/geometry"

// ApplyMovementInput implements spec §4.3 step 1. It is run before the
// action evaluator so that an action's own per-frame velocity override
// (if one starts this frame) can still win.
func ApplyMovementInput(p *PlayerState, input uint16, def CharacterDef) {
	if p.HitstunRemaining > 0 {
		return
	}

	left := input&InputLeft != 0
	right := input&InputRight != 0

	switch {
	case left && !right:
		p.VelX = -def.WalkSpeed
		p.Facing = FacingLeft
	case right && !left:
		p.VelX = def.WalkSpeed
		p.Facing = FacingRight
	default:
		p.VelX = 0
	}

	if input&InputJump != 0 && p.Grounded {
		p.VelY = def.JumpForce
		p.Grounded = false
	}
}

// ApplyGravity implements spec §4.3 step 2.
func ApplyGravity(p *PlayerState, def CharacterDef) {
	if p.Grounded {
		return
	}
	p.VelY -= def.Gravity
	if p.VelY < -def.MaxFallSpeed {
		p.VelY = -def.MaxFallSpeed
	}
}

func hitboxOf(p *PlayerState, def CharacterDef) geometry.AABB {
	return geometry.FromCenter(p.PosX, p.PosY, def.HitboxWidth, def.HitboxHeight)
}

// ResolveCollisionX implements the X half of spec §4.3 step 3: add
// vel_x tentatively, and on overlap with any solid snap to the
// penetrated edge and zero vel_x.
func ResolveCollisionX(p *PlayerState, def CharacterDef, mapData MapData) {
	newX := p.PosX + p.VelX
	box := geometry.FromCenter(newX, p.PosY, def.HitboxWidth, def.HitboxHeight)

	for _, solid := range mapData.Solids {
		if !geometry.Overlaps(box, solid) {
			continue
		}
		if p.VelX > 0 {
			newX = solid.MinX - def.HitboxWidth/2
		} else if p.VelX < 0 {
			newX = solid.MaxX + def.HitboxWidth/2
		}
		p.VelX = 0
		box = geometry.FromCenter(newX, p.PosY, def.HitboxWidth, def.HitboxHeight)
	}

	p.PosX = newX
}

// groundProbeEpsilon is the downward nudge ResolveCollisionY uses to
// test for resting contact once VelY has already settled to 0.
// Overlaps is strict on every side, so a player resting flush on top
// of a solid (box.MinY == solid.MaxY exactly) never overlaps it; the
// probe looks a hair below the player's feet instead of at them.
const groundProbeEpsilon = 10

// isSupported reports whether p, at its current position, rests on
// any solid. Used to re-derive Grounded for a stationary player
// instead of relying on the velocity-driven landing branch below,
// which only fires while still falling into the solid.
func isSupported(p *PlayerState, def CharacterDef, mapData MapData) bool {
	box := geometry.FromCenter(p.PosX, p.PosY-groundProbeEpsilon, def.HitboxWidth, def.HitboxHeight)
	for _, solid := range mapData.Solids {
		if geometry.Overlaps(box, solid) {
			return true
		}
	}
	return false
}

// ResolveCollisionY implements the Y half of spec §4.3 step 3.
// Grounded is reset every frame and re-derived from actual contact
// with a solid, not just toggled by jumping and landing — MapData.Solids
// is an ordered list of possibly many platforms, so a player walking
// off a ledge must start falling again instead of staying grounded.
func ResolveCollisionY(p *PlayerState, def CharacterDef, mapData MapData) {
	p.Grounded = false

	newY := p.PosY + p.VelY
	box := geometry.FromCenter(p.PosX, newY, def.HitboxWidth, def.HitboxHeight)

	for _, solid := range mapData.Solids {
		if !geometry.Overlaps(box, solid) {
			continue
		}
		if p.VelY <= 0 {
			// Falling, or already resting: land on top of the solid.
			newY = solid.MaxY + def.HitboxHeight/2
			p.Grounded = true
		} else {
			// Rising: bump the underside of the solid.
			newY = solid.MinY - def.HitboxHeight/2
		}
		p.VelY = 0
		box = geometry.FromCenter(p.PosX, newY, def.HitboxWidth, def.HitboxHeight)
	}

	p.PosY = newY

	// A player at rest (VelY == 0) with no downward motion never
	// overlaps the solid it stands on, since Overlaps treats exactly
	// touching edges as not overlapping. Probe just below the feet to
	// confirm support is still there before concluding they're airborne.
	if !p.Grounded && p.VelY == 0 && isSupported(p, def, mapData) {
		p.Grounded = true
	}
}

// ApplyFriction implements spec §4.3 step 4. Friction only ever
// reduces the magnitude of horizontal velocity — it never flips its
// sign.
func ApplyFriction(p *PlayerState, def CharacterDef) {
	friction := def.FrictionAir
	if p.Grounded {
		friction = def.FrictionGround
	}

	switch {
	case p.VelX > 0:
		p.VelX -= friction
		if p.VelX < 0 {
			p.VelX = 0
		}
	case p.VelX < 0:
		p.VelX += friction
		if p.VelX > 0 {
			p.VelX = 0
		}
	}
}

// ApplyKillFloor implements spec §4.3 step 5.
func ApplyKillFloor(p *PlayerState, mapData MapData) {
	if p.PosY < mapData.KillFloorY {
		p.Health = 0
	}
}

// RunPhysics runs the full per-player physics pipeline (spec §4.3
// steps 2-5; step 1 is ApplyMovementInput, run earlier in
// Simulation.Tick so the action evaluator can override it).
func RunPhysics(p *PlayerState, def CharacterDef, mapData MapData) {
	ApplyGravity(p, def)
	ResolveCollisionX(p, def, mapData)
	ResolveCollisionY(p, def, mapData)
	ApplyFriction(p, def)
	ApplyKillFloor(p, mapData)
}
