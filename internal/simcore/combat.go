package simcore

import (
	"fightcore/internal/fixedpoint"
	"fightcore/internal/geometry"
)

// ComboWindowResetFrames is how many frames a combo stays open after a
// confirmed hit before ComboCount resets to zero.
const ComboWindowResetFrames = 45

// comboDamageFloor is the minimum fraction (fixed-point, scale S) of a
// hit's damage that still applies deep into a combo.
const comboDamageFloor = 300

// comboDamageStepDown is how much the damage scalar drops per combo
// hit beyond the first (fixed-point, scale S).
const comboDamageStepDown = 100

// hitResult is a confirmed hit, queued for application after every
// candidate hitbox/hurtbox pair has been evaluated against the
// pre-frame positions — this is what makes simultaneous hits trade
// instead of one attacker's resolution affecting the other's.
type hitResult struct {
	target int32

	damage  int32
	hitstun int32

	velX, velY int64
}

// normalizeDirection returns a fixed-point (scale S) unit vector
// pointing from an attacker toward its target. When the two positions
// coincide it falls back to (S, 0) rather than dividing by zero.
func normalizeDirection(dx, dy int64) (int64, int64) {
	if dx == 0 && dy == 0 {
		return fixedpoint.Scale, 0
	}

	magSq := fixedpoint.Mul(dx, dx) + fixedpoint.Mul(dy, dy)
	mag := fixedpoint.Sqrt(magSq * fixedpoint.Scale)
	if mag == 0 {
		mag = 1
	}

	return fixedpoint.Div(dx, mag), fixedpoint.Div(dy, mag)
}

// ResolveCombat implements the combat resolver of spec §4.5. hitboxes
// must already be ordered owner ascending, then hitbox index
// ascending within an owner (the caller evaluates player 0 before
// player 1 before concatenating their emitted hitboxes). Every hitbox
// is checked against the opposing player's hurtbox using the
// pre-frame position of both players; all resulting hits are then
// applied in a single pass, so two hitboxes landing on the same frame
// both connect.
func ResolveCombat(players *[2]PlayerState, defs [2]CharacterDef, hitboxes []ActiveHitbox) {
	var resultArr [maxHitboxesPerTick]hitResult
	results := resultArr[:0]

	for _, hb := range hitboxes {
		targetIdx := int32(1) - hb.Owner
		target := &players[targetIdx]
		if !target.Alive() {
			continue
		}

		attackBox := geometry.FromCenter(hb.PosX, hb.PosY, hb.Width, hb.Height)
		targetBox := hitboxOf(target, defs[targetIdx])
		if !geometry.Overlaps(attackBox, targetBox) {
			continue
		}

		owner := &players[hb.Owner]
		dx := target.PosX - owner.PosX
		dy := target.PosY - owner.PosY
		dirX, dirY := normalizeDirection(dx, dy)

		damage := scaleComboDamage(hb.Damage, target.ComboCount)

		knockbackScalar := hb.BaseKnockback + fixedpoint.Mul(int64(damage), hb.KnockbackGrowth)
		weightScale := fixedpoint.Div(defs[targetIdx].WeightFactorBase, defs[targetIdx].Weight+defs[targetIdx].WeightFactorBase)
		finalKnockback := fixedpoint.Mul(knockbackScalar, weightScale)

		hitstun := int32(fixedpoint.Mul(int64(hb.Hitstun), defs[targetIdx].HitstunMultiplier))

		results = append(results, hitResult{
			target:  targetIdx,
			damage:  damage,
			hitstun: hitstun,
			velX:    fixedpoint.Mul(dirX, finalKnockback),
			velY:    fixedpoint.Mul(dirY, finalKnockback),
		})
	}

	for _, r := range results {
		target := &players[r.target]

		target.Health -= r.damage
		if target.Health < 0 {
			target.Health = 0
		}

		if r.hitstun > target.HitstunRemaining {
			target.HitstunRemaining = r.hitstun
		}
		target.VelX += r.velX
		target.VelY += r.velY
		target.CurrentActionID = 0
		target.ActionFrame = 0

		if target.ComboWindowFrames > 0 {
			target.ComboCount++
		} else {
			target.ComboCount = 1
		}
		target.ComboWindowFrames = ComboWindowResetFrames
	}
}

// DecayComboWindows counts down each player's combo window by one
// frame, resetting ComboCount once the window closes. Called once per
// tick regardless of whether either player was hit this frame.
func DecayComboWindows(players *[2]PlayerState) {
	for i := range players {
		p := &players[i]
		if p.ComboWindowFrames <= 0 {
			continue
		}
		p.ComboWindowFrames--
		if p.ComboWindowFrames == 0 {
			p.ComboCount = 0
		}
	}
}

// scaleComboDamage applies diminishing returns the deeper into a
// combo a hit lands, floored so late combo hits still chip meaningful
// damage. comboCount is the count BEFORE this hit is registered (0 for
// a combo opener).
func scaleComboDamage(damage int32, comboCount int32) int32 {
	scalar := fixedpoint.Scale - int64(comboCount)*comboDamageStepDown
	if scalar < comboDamageFloor {
		scalar = comboDamageFloor
	}
	return int32(fixedpoint.Mul(int64(damage), scalar))
}
