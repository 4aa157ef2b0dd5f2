package simcore

// CharacterDef is the static, per-archetype definition a player is
// built from. Immutable after match start.
type CharacterDef struct {
	BaseHealth int32

	WalkSpeed    int64
	RunSpeed     int64
	JumpForce    int64
	Gravity      int64
	MaxFallSpeed int64

	// WeightFactorBase controls knockback scaling: heavier characters
	// (larger weight) receive proportionally less knockback.
	Weight           int64
	WeightFactorBase int64

	// HitstunMultiplier is fixed-point scale S; S itself means "no
	// change" to a hit's base hitstun.
	HitstunMultiplier int64

	HitboxWidth  int64
	HitboxHeight int64

	FrictionGround int64
	FrictionAir    int64

	// Names resolved to action IDs once, at match start, by
	// ResolveActionIDs — never mutated in place on the caller's copy.
	DefaultAttackAction  string
	DefaultSpecialAction string
	DefaultDefendAction  string

	DefaultAttackActionID  uint32
	DefaultSpecialActionID uint32
	DefaultDefendActionID  uint32
}

// ResolveActionIDs returns a copy of def with the three default action
// name fields hashed into action IDs. CharacterDef is a plain value
// type, so this never mutates the caller's original — it is the fix
// for the aliasing hazard noted in SPEC_FULL.md §9.
func (def CharacterDef) ResolveActionIDs() CharacterDef {
	def.DefaultAttackActionID = ActionID(def.DefaultAttackAction)
	def.DefaultSpecialActionID = ActionID(def.DefaultSpecialAction)
	def.DefaultDefendActionID = ActionID(def.DefaultDefendAction)
	return def
}
