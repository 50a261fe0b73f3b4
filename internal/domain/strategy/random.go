package strategy

import (
	"math/rand"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

// Random picks uniformly among the currently legal commands and fills in
// prompt arguments with uniformly drawn values inside the game's accepted
// ranges. Two Random strategies built with the same seed replay the same
// decision sequence against the same state sequence, which is what makes
// benchmark runs reproducible.
type Random struct {
	seed int64
	rng  *rand.Rand
}

// NewRandom returns a seeded random strategy.
func NewRandom(seed int64) *Random {
	return &Random{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Name implements Strategy.
func (r *Random) Name() string { return "random" }

// Reset rewinds the generator so a fresh game replays the same stream.
func (r *Random) Reset() {
	r.rng = rand.New(rand.NewSource(r.seed))
}

// Decide implements Strategy.
func (r *Random) Decide(state *game.GameState) game.Command {
	switch state.LastPrompt.Kind {
	case game.PromptCommand:
		return game.NewCommand(r.pickVerb(state))
	case game.PromptCourse:
		return game.NewCommand(game.VerbMove, game.Number(r.course()))
	case game.PromptWarpFactor:
		return game.NewCommand(game.VerbMove, game.Number(r.warp(state)))
	case game.PromptTorpedoCourse:
		return game.NewCommand(game.VerbFireTorpedo, game.Number(r.course()))
	case game.PromptShieldUnits:
		return game.NewCommand(game.VerbShieldControl, game.Number(r.shieldUnits(state)))
	case game.PromptPhaserUnits:
		return game.NewCommand(game.VerbFirePhasers, game.Number(r.phaserUnits(state)))
	case game.PromptComputer:
		// Codes above 5 crash some interpreter families, so only the six
		// documented computer functions are ever requested.
		return game.NewCommand(game.VerbComputer, game.Number(r.rng.Intn(6)))
	case game.PromptCoordinates:
		return game.NewCommand(game.VerbComputer,
			game.Coord{Row: 1 + r.rng.Intn(game.GridSize), Col: 1 + r.rng.Intn(game.GridSize)})
	case game.PromptRepair:
		if r.rng.Intn(2) == 0 {
			return game.NewCommand(game.VerbAcknowledge, game.Token("Y"))
		}
		return game.NewCommand(game.VerbAcknowledge, game.Token("N"))
	case game.PromptAye:
		// Resigning the command requires the literal word.
		return game.NewCommand(game.VerbQuit, game.Token("AYE"))
	default:
		return game.NewCommand(game.VerbAcknowledge)
	}
}

// pickVerb draws uniformly from the legal set, excluding quit so random
// games end by play rather than by resignation.
func (r *Random) pickVerb(state *game.GameState) game.Verb {
	legal := game.LegalVerbs(state)
	candidates := legal[:0:0]
	for _, v := range legal {
		if v == game.VerbQuit {
			continue
		}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return game.VerbDamageReport
	}
	return candidates[r.rng.Intn(len(candidates))]
}

// course is a uniform course in [1,9), the game's clock-face heading where
// 9 wraps to 1.
func (r *Random) course() float64 {
	return 1 + r.rng.Float64()*8
}

// warp draws a warp factor within the currently accepted range. Damaged
// engines cap the factor at 0.2; the prompt itself advertises the range
// when it differs.
func (r *Random) warp(state *game.GameState) float64 {
	lo, hi := 0.1, 8.0
	if pLo, pHi, ok := game.ParseWarpFactorRange(state.LastPrompt.Raw); ok {
		lo, hi = pLo, pHi
		if lo <= 0 {
			lo = 0.1
		}
	} else if state.SystemDamaged(game.SystemWarpEngines) {
		hi = 0.2
	}
	if hi < lo {
		hi = lo
	}
	return lo + r.rng.Float64()*(hi-lo)
}

// shieldUnits draws a shield allocation bounded by the energy the prompt
// advertises. Zero is a legal answer and leaves the shields untouched.
func (r *Random) shieldUnits(state *game.GameState) int {
	avail := state.Resource(game.ResourceEnergy)
	if n, ok := game.ParseEnergyAvailable(state.LastPrompt.Raw); ok {
		avail = n
	}
	if avail <= 0 {
		return 0
	}
	return r.rng.Intn(avail + 1)
}

// phaserUnits draws a phaser charge in [1, min(500, energy)].
func (r *Random) phaserUnits(state *game.GameState) int {
	avail := state.Resource(game.ResourceEnergy)
	if n, ok := game.ParseEnergyAvailable(state.LastPrompt.Raw); ok {
		avail = n
	}
	if avail > 500 {
		avail = 500
	}
	if avail < 1 {
		return 1
	}
	return 1 + r.rng.Intn(avail)
}
