package rollback

import (
	"fightcore/internal/simcore"

	"github.com/prometheus/client_golang/prometheus"
)

// MatchConfig carries everything needed to stand up a new match: the
// stage, each player's character, and the IsDevelopment flag, which
// only selects the value HashCadence returns. The controller itself
// computes a state hash only when StateHashAt or CheckPeerHash is
// called, in either mode.
type MatchConfig struct {
	Map           simcore.MapData
	CharacterDefs [2]simcore.CharacterDef
	Library       simcore.ActionLibrary
	WindowSize    int32
	IsDevelopment bool
	EventLog      *simcore.EventLog
	Registry      prometheus.Registerer
}

// StartPositions are the spawn points the two players begin a match
// at, spec.md §8 scenario 2's test-stage layout.
var StartPositions = [2][2]int64{
	{-2000, 1000},
	{2000, 1000},
}

// NewRollbackController builds the seed GameState from the supplied
// CharacterDefs and constructs a Controller ready to simulate frame 0
// on the first TickPrediction/TickLocal call.
//
// CharacterDefs are passed by value (spec.md §9's resolved open
// question): CharacterDef is a plain value type, so cfg.CharacterDefs
// is never mutated by this call — ResolveActionIDs returns a new copy
// with the default action name fields hashed into IDs, and that copy,
// not the caller's original, is what the controller and the returned
// seed state are built from.
func NewRollbackController(cfg MatchConfig) *Controller {
	defs := [2]simcore.CharacterDef{
		cfg.CharacterDefs[0].ResolveActionIDs(),
		cfg.CharacterDefs[1].ResolveActionIDs(),
	}

	seed := simcore.GameState{FrameIndex: 0}
	for i := range seed.Players {
		seed.Players[i] = simcore.PlayerState{
			PosX:     StartPositions[i][0],
			PosY:     StartPositions[i][1],
			Facing:   facingToward(i),
			Health:   defs[i].BaseHealth,
			Grounded: false,
		}
	}

	var metrics *Metrics
	if cfg.Registry != nil {
		metrics = NewMetrics(cfg.Registry)
	}

	return NewController(seed, defs, cfg.Map, cfg.Library, cfg.WindowSize, cfg.EventLog, metrics)
}

// facingToward returns the facing that points player i at its
// opponent: player 0 starts on the left facing right, player 1 on the
// right facing left.
func facingToward(playerIndex int) int32 {
	if playerIndex == 0 {
		return simcore.FacingRight
	}
	return simcore.FacingLeft
}

// HashCadence reports a hash interval for an embedder's tick loop: 1
// frame in development mode, ProductionHashCadence frames otherwise.
// Nothing in this repository calls it; cmd/server does not hash on a
// cadence.
const ProductionHashCadence = 10

func (cfg MatchConfig) HashCadence() int32 {
	if cfg.IsDevelopment {
		return 1
	}
	return ProductionHashCadence
}
