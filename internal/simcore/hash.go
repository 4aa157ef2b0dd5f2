package simcore

import (
	"hash/fnv"
	"io"
)

// StateHash computes the canonical FNV-1a 32-bit hash of a GameState.
// Field order is fixed and documented here because it IS the wire
// contract: two peers with the same state must produce the same hash
// regardless of platform, and the only way to guarantee that is to
// serialize every field in a single, never-changing order and width.
// Inactive projectile slots still contribute their full zero-valued
// fields, so a freed slot hashes identically everywhere.
func StateHash(state *GameState) uint32 {
	h := fnv.New32a()
	var buf [8]byte

	writeU32(h, &buf, state.FrameIndex)

	for i := range state.Players {
		hashPlayer(h, &buf, &state.Players[i])
	}

	for i := range state.Projectiles {
		hashProjectile(h, &buf, &state.Projectiles[i])
	}

	writeI32(h, &buf, state.ActiveProjectileCount)
	writeU32(h, &buf, state.RngState)

	return h.Sum32()
}

func hashPlayer(h io.Writer, buf *[8]byte, p *PlayerState) {
	writeI64(h, buf, p.PosX)
	writeI64(h, buf, p.PosY)
	writeI64(h, buf, p.VelX)
	writeI64(h, buf, p.VelY)
	writeI32(h, buf, p.Facing)
	writeBool(h, buf, p.Grounded)
	writeI32(h, buf, p.Health)
	writeI32(h, buf, p.HitstunRemaining)
	writeU32(h, buf, p.CurrentActionID)
	writeI32(h, buf, p.ActionFrame)
	writeI32(h, buf, p.Meter)
	for _, word := range p.InputBuffer {
		writeU16(h, buf, word)
	}
	writeI32(h, buf, p.ComboCount)
	writeI32(h, buf, p.ComboWindowFrames)
}

func hashProjectile(h io.Writer, buf *[8]byte, pr *ProjectileState) {
	writeBool(h, buf, pr.Active)
	writeI64(h, buf, pr.PosX)
	writeI64(h, buf, pr.PosY)
	writeI64(h, buf, pr.VelX)
	writeI64(h, buf, pr.VelY)
	writeI32(h, buf, pr.OwnerPlayer)
	writeI32(h, buf, pr.Damage)
	writeI32(h, buf, pr.LifetimeFrames)
	writeI64(h, buf, pr.Width)
	writeI64(h, buf, pr.Height)
}

func writeU16(h io.Writer, buf *[8]byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	_, _ = h.Write(buf[:2])
}

func writeU32(h io.Writer, buf *[8]byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	_, _ = h.Write(buf[:4])
}

func writeI32(h io.Writer, buf *[8]byte, v int32) {
	writeU32(h, buf, uint32(v))
}

func writeI64(h io.Writer, buf *[8]byte, v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		buf[i] = byte(u >> (8 * i))
	}
	_, _ = h.Write(buf[:8])
}

func writeBool(h io.Writer, buf *[8]byte, v bool) {
	if v {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	_, _ = h.Write(buf[:1])
}
