package simcore

import "fightcore/internal/geometry"

// MapData is the fixed, immutable stage geometry a match is played on.
type MapData struct {
	Solids     []geometry.AABB
	KillFloorY int64
}
