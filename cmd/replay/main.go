// Command replay is a deterministic-replay harness: it drives two
// independent rollback controllers over the same recorded input
// script — one straight-through with fully authoritative inputs, the
// other predicting player 1's input and then correcting it late — and
// asserts their state hashes converge. This is spec.md §8 testable
// property 5 (rollback correctness) exercised end to end, standing in
// for the teacher's cmd/streamer (which drove a video encoder; this
// harness drives the simulation core itself, the thing worth
// verifying here).
package main

import (
	"fmt"
	"log"

	"fightcore/internal/rollback"
	"fightcore/internal/simcore"

	"github.com/prometheus/client_golang/prometheus"
)

const totalFrames = 50

// mispredictFrame is the frame at which player 1's authoritative
// input diverges from the zero-input prediction every controller
// makes absent better information.
const mispredictFrame = 30

func main() {
	character := simcore.DefaultCharacter().ResolveActionIDs()
	library := simcore.DefaultActionLibrary(character)
	stage := simcore.DefaultStage()
	defs := [2]simcore.CharacterDef{character, character}

	p0Inputs := make([]uint16, totalFrames+1)
	p1Inputs := make([]uint16, totalFrames+1)
	for f := range p0Inputs {
		p0Inputs[f] = simcore.InputRight
	}
	for f := mispredictFrame; f < len(p1Inputs); f++ {
		p1Inputs[f] = simcore.InputLeft
	}

	authoritative := newController(defs, stage, library)
	for f := 0; f <= totalFrames; f++ {
		authoritative.TickLocal(p0Inputs[f], p1Inputs[f])
	}
	authoritativeHash, err := authoritative.StateHashAt(totalFrames)
	if err != nil {
		log.Fatalf("authoritative hash at frame %d: %v", totalFrames, err)
	}

	predicting := newController(defs, stage, library)
	for f := 0; f <= totalFrames; f++ {
		predicting.TickPrediction(0, p0Inputs[f])
	}
	preCorrectionHash, _ := predicting.StateHashAt(totalFrames)

	for f := mispredictFrame; f <= totalFrames; f++ {
		if err := predicting.SubmitRemoteInputs(int32(f), 1, p1Inputs[f]); err != nil {
			log.Fatalf("submit remote input for frame %d: %v", f, err)
		}
	}
	postCorrectionHash, err := predicting.StateHashAt(totalFrames)
	if err != nil {
		log.Fatalf("predicting hash at frame %d: %v", totalFrames, err)
	}

	fmt.Printf("frame %d straight-through hash:   %08x\n", totalFrames, authoritativeHash)
	fmt.Printf("frame %d pre-rollback hash:       %08x (mispredicted from frame %d on)\n", totalFrames, preCorrectionHash, mispredictFrame)
	fmt.Printf("frame %d post-rollback hash:      %08x\n", totalFrames, postCorrectionHash)

	if postCorrectionHash != authoritativeHash {
		log.Fatalf("rollback did not converge: post-rollback=%08x authoritative=%08x", postCorrectionHash, authoritativeHash)
	}
	if preCorrectionHash == authoritativeHash {
		log.Fatalf("prediction accidentally matched authoritative play; the scenario proves nothing — widen mispredictFrame's input delta")
	}

	fmt.Println("rollback converged: post-correction hash matches the authoritative straight-through run")
}

func newController(defs [2]simcore.CharacterDef, stage simcore.MapData, library simcore.ActionLibrary) *rollback.Controller {
	return rollback.NewRollbackController(rollback.MatchConfig{
		Map:           stage,
		CharacterDefs: defs,
		Library:       library,
		WindowSize:    rollback.DefaultWindowSize,
		IsDevelopment: true,
		Registry:      prometheus.NewRegistry(),
	})
}
