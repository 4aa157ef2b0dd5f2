package simcore

// ActiveHitbox is a candidate hitbox emitted by the action evaluator
// for a single frame, positioned in world space and tagged with its
// owner.
type ActiveHitbox struct {
	Owner int32

	OffsetXApplied int64 // already mirrored and added to the owner's position
	PosX, PosY     int64
	Width, Height  int64

	Damage          int32
	BaseKnockback   int64
	KnockbackGrowth int64
	Hitstun         int32
}

// PendingSpawn is a projectile spawn request emitted by the action
// evaluator for a single frame. The caller (Simulation.Tick) is
// responsible for inserting it into the projectile pool, silently
// dropping it if the pool is full.
type PendingSpawn struct {
	Owner      int32
	PosX, PosY int64
	VelX, VelY int64
	Damage     int32
	Lifetime   int32
}

// mirror flips an x-axis quantity according to facing: RIGHT (+1)
// leaves it unchanged, LEFT (-1) negates it. Actions are authored
// facing right; this is how they read correctly when facing left.
func mirror(x int64, facing int32) int64 {
	return x * int64(facing)
}

func canStartAction(p *PlayerState, library ActionLibrary) bool {
	if p.HitstunRemaining > 0 {
		return false
	}
	if p.CurrentActionID == 0 {
		return true
	}
	def, ok := library[p.CurrentActionID]
	if !ok {
		return true
	}
	if int(p.ActionFrame) >= len(def.Timeline) {
		return true
	}
	return def.Timeline[p.ActionFrame].Cancelable
}

// AdvanceAction implements spec §4.4. It starts a new action on a
// rising edge of ATTACK/SPECIAL/DEFEND when allowed, applies the
// current action's per-frame velocity override, and appends any
// hitboxes/projectile spawns the current frame of the action emits to
// the caller-owned hitboxesOut/spawnsOut buffers. The caller (normally
// Simulation.Tick) sizes those buffers once up front and passes the
// same backing array in across both players and every frame, so this
// never grows a slice on its own and never allocates; a buffer that is
// already full simply stops accepting further entries for this tick,
// the same silent-drop behavior SpawnProjectile uses for a full
// projectile pool.
//
// Button priority when more than one of ATTACK/SPECIAL/DEFEND is
// pressed on the same rising edge is ATTACK, then SPECIAL, then
// DEFEND — spec.md is silent on simultaneous presses, so a fixed,
// documented precedence is used to keep action selection
// deterministic.
func AdvanceAction(p *PlayerState, input uint16, ownerIndex int32, def CharacterDef, library ActionLibrary, hitboxesOut *[]ActiveHitbox, spawnsOut *[]PendingSpawn) {
	prev := p.InputBuffer[0]
	defer p.PushInput(input)

	if canStartAction(p, library) {
		pressedAttack := input&InputAttack != 0 && prev&InputAttack == 0
		pressedSpecial := input&InputSpecial != 0 && prev&InputSpecial == 0
		pressedDefend := input&InputDefend != 0 && prev&InputDefend == 0

		switch {
		case pressedAttack:
			p.CurrentActionID = def.DefaultAttackActionID
			p.ActionFrame = 0
		case pressedSpecial:
			p.CurrentActionID = def.DefaultSpecialActionID
			p.ActionFrame = 0
		case pressedDefend:
			p.CurrentActionID = def.DefaultDefendActionID
			p.ActionFrame = 0
		}
	}

	if p.CurrentActionID == 0 {
		return
	}

	action, ok := library[p.CurrentActionID]
	if !ok || p.ActionFrame >= action.TotalFrames {
		p.CurrentActionID = 0
		p.ActionFrame = 0
		return
	}

	if int(p.ActionFrame) < len(action.Timeline) {
		frame := action.Timeline[p.ActionFrame]
		p.VelX = mirror(frame.VelX, p.Facing)
		p.VelY = frame.VelY
	}

	for _, hb := range action.Hitboxes {
		if p.ActionFrame < hb.StartFrame || p.ActionFrame >= hb.EndFrame {
			continue
		}
		if len(*hitboxesOut) >= cap(*hitboxesOut) {
			break
		}
		ox := mirror(hb.OffsetX, p.Facing)
		*hitboxesOut = append(*hitboxesOut, ActiveHitbox{
			Owner:           ownerIndex,
			OffsetXApplied:  ox,
			PosX:            p.PosX + ox,
			PosY:            p.PosY + hb.OffsetY,
			Width:           hb.Width,
			Height:          hb.Height,
			Damage:          hb.Damage,
			BaseKnockback:   hb.BaseKnockback,
			KnockbackGrowth: hb.KnockbackGrowth,
			Hitstun:         hb.Hitstun,
		})
	}

	for _, sp := range action.Spawns {
		if sp.Frame != p.ActionFrame {
			continue
		}
		if len(*spawnsOut) >= cap(*spawnsOut) {
			break
		}
		*spawnsOut = append(*spawnsOut, PendingSpawn{
			Owner:    ownerIndex,
			PosX:     p.PosX + mirror(sp.OffsetX, p.Facing),
			PosY:     p.PosY + sp.OffsetY,
			VelX:     mirror(sp.VelX, p.Facing),
			VelY:     sp.VelY,
			Damage:   sp.Damage,
			Lifetime: sp.Lifetime,
		})
	}

	p.ActionFrame++
	if p.ActionFrame >= action.TotalFrames {
		p.CurrentActionID = 0
		p.ActionFrame = 0
	}
}
