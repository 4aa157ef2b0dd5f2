package simcore

import (
	"fightcore/internal/fixedpoint"
	"fightcore/internal/geometry"
)

// projectileHitstun and projectileKnockbackPerDamage are fixed
// constants applied on a projectile hit — unlike melee hitboxes,
// ProjectileState carries only a flat damage value, not its own
// knockback/hitstun tuning.
const (
	projectileHitstun           int32 = 12
	projectileKnockbackPerDamage int64 = 30
	projectileKnockbackBase      int64 = 1500
)

// SpawnProjectile inserts a pending spawn into the first free slot of
// the fixed pool, ascending by index. Returns false (and drops the
// spawn silently, per spec §4.6) if the pool is already full.
func SpawnProjectile(state *GameState, spawn PendingSpawn) bool {
	for i := range state.Projectiles {
		if state.Projectiles[i].Active {
			continue
		}
		state.Projectiles[i] = ProjectileState{
			Active:         true,
			PosX:           spawn.PosX,
			PosY:           spawn.PosY,
			VelX:           spawn.VelX,
			VelY:           spawn.VelY,
			OwnerPlayer:    spawn.Owner,
			Damage:         spawn.Damage,
			LifetimeFrames: spawn.Lifetime,
			Width:          800,
			Height:         800,
		}
		state.ActiveProjectileCount++
		return true
	}
	return false
}

func projectileBox(pr *ProjectileState) geometry.AABB {
	return geometry.FromCenter(pr.PosX, pr.PosY, pr.Width, pr.Height)
}

// StepProjectiles implements spec §4.6: integrates every active slot
// in ascending index order, retires projectiles that leave their
// lifetime, collide with the stage, or connect with the opposing
// player, and applies a connecting hit directly (deterministically,
// slot order ascending — there is at most one opposing player so no
// ordering ambiguity arises the way it can for melee hitboxes).
func StepProjectiles(state *GameState, defs [2]CharacterDef, mapData MapData) {
	for i := range state.Projectiles {
		pr := &state.Projectiles[i]
		if !pr.Active {
			continue
		}

		pr.PosX += pr.VelX
		pr.PosY += pr.VelY
		pr.LifetimeFrames--

		box := projectileBox(pr)

		retire := pr.LifetimeFrames <= 0

		if !retire {
			for _, solid := range mapData.Solids {
				if geometry.Overlaps(box, solid) {
					retire = true
					break
				}
			}
		}

		if !retire {
			targetIdx := int32(1) - pr.OwnerPlayer
			target := &state.Players[targetIdx]
			if target.Alive() {
				targetBox := hitboxOf(target, defs[targetIdx])
				if geometry.Overlaps(box, targetBox) {
					applyProjectileHit(pr, target, &defs[targetIdx])
					retire = true
				}
			}
		}

		if retire {
			// Zero the whole slot, not just Active: spec §3/§4.8 require
			// inactive slots to serialize to a fixed zero pattern so the
			// state hash is unaffected by allocation history.
			*pr = ProjectileState{}
			state.ActiveProjectileCount--
		}
	}
}

func applyProjectileHit(pr *ProjectileState, target *PlayerState, def *CharacterDef) {
	dirX, dirY := normalizeDirection(target.PosX-pr.PosX, target.PosY-pr.PosY)

	damage := scaleComboDamage(pr.Damage, target.ComboCount)

	knockbackScalar := projectileKnockbackBase + int64(damage)*projectileKnockbackPerDamage
	weightScale := fixedpoint.Div(def.WeightFactorBase, def.Weight+def.WeightFactorBase)
	finalKnockback := fixedpoint.Mul(knockbackScalar, weightScale)

	target.Health -= damage
	if target.Health < 0 {
		target.Health = 0
	}
	newHitstun := int32(fixedpoint.Mul(int64(projectileHitstun), def.HitstunMultiplier))
	if newHitstun > target.HitstunRemaining {
		target.HitstunRemaining = newHitstun
	}
	target.VelX += fixedpoint.Mul(dirX, finalKnockback)
	target.VelY += fixedpoint.Mul(dirY, finalKnockback)
	target.CurrentActionID = 0
	target.ActionFrame = 0

	if target.ComboWindowFrames > 0 {
		target.ComboCount++
	} else {
		target.ComboCount = 1
	}
	target.ComboWindowFrames = ComboWindowResetFrames
}
