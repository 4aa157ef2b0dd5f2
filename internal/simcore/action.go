package simcore

import "hash/fnv"

// ActionID hashes an action name into the stable 32-bit key used to
// index the action library. FNV-1a is used here (not just for the
// cross-peer state hash in hash.go) so that action names resolve to
// the same ID independent of insertion order or process — the same
// property spec.md §9 asks of the action library's lookup.
func ActionID(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// FrameState is one frame's worth of per-frame velocity override in
// an action's timeline.
type FrameState struct {
	VelX, VelY int64
	Cancelable bool
	Hitstun    int32
}

// HitboxEvent describes a window during an action's timeline in which
// an attack hitbox is live.
type HitboxEvent struct {
	StartFrame, EndFrame int32 // [StartFrame, EndFrame)

	OffsetX, OffsetY int64
	Width, Height    int64

	Damage          int32
	BaseKnockback   int64
	KnockbackGrowth int64
	Hitstun         int32
}

// ProjectileSpawn describes a projectile launched on a specific frame
// of an action's timeline.
type ProjectileSpawn struct {
	Frame int32

	OffsetX, OffsetY int64
	VelX, VelY       int64

	Damage   int32
	Lifetime int32
}

// ActionDef is a static, immutable action timeline keyed by ActionID
// in an ActionLibrary.
type ActionDef struct {
	TotalFrames int32

	// Timeline has exactly TotalFrames entries, one per action_frame.
	Timeline []FrameState

	Hitboxes []HitboxEvent
	Spawns   []ProjectileSpawn
}

// ActionLibrary maps action_id to its definition. Populated once at
// match start and never mutated — a plain map gives deterministic
// lookup by key regardless of insertion order (Go map iteration order
// is irrelevant here since the library is never iterated, only
// indexed).
type ActionLibrary map[uint32]ActionDef
