package strategy

import (
	"math"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

const (
	// shieldTarget is the shield level the cheat strategy tries to hold
	// while hostiles are in the quadrant.
	shieldTarget = 1000

	// phaserMargin is fired on top of the scanned threat strength so a
	// weakened hit still finishes the target.
	phaserMargin = 100

	// scanStaleTurns forces a fresh short range scan after this many
	// commands without one, so the threat picture never drifts too far
	// from reality.
	scanStaleTurns = 6
)

// Cheat is a deterministic rule-based strategy. It reads the full tracked
// state, keeps the shields charged in combat, spends torpedoes before
// phaser energy, retreats when outgunned and sweeps the galaxy quadrant by
// quadrant otherwise. Given the same state sequence it always produces the
// same command sequence; it uses no randomness at all.
type Cheat struct {
	lastScanTurn  int
	scanned       bool
	exploreStep   int
	retreatCourse float64
}

// NewCheat returns a cheat strategy with empty memory.
func NewCheat() *Cheat {
	return &Cheat{lastScanTurn: -1}
}

// Name implements Strategy.
func (c *Cheat) Name() string { return "cheat" }

// Reset implements Strategy.
func (c *Cheat) Reset() {
	c.lastScanTurn = -1
	c.scanned = false
	c.exploreStep = 0
	c.retreatCourse = 0
}

// Decide implements Strategy.
func (c *Cheat) Decide(state *game.GameState) game.Command {
	switch state.LastPrompt.Kind {
	case game.PromptCommand:
		return c.command(state)
	case game.PromptCourse:
		return game.NewCommand(game.VerbMove, game.Number(c.moveCourse(state)))
	case game.PromptWarpFactor:
		return game.NewCommand(game.VerbMove, game.Number(c.warp(state)))
	case game.PromptTorpedoCourse:
		return game.NewCommand(game.VerbFireTorpedo, game.Number(c.torpedoCourse(state)))
	case game.PromptShieldUnits:
		return game.NewCommand(game.VerbShieldControl, game.Number(c.shieldUnits(state)))
	case game.PromptPhaserUnits:
		return game.NewCommand(game.VerbFirePhasers, game.Number(c.phaserUnits(state)))
	case game.PromptComputer:
		// Function 0 is the cumulative galactic record, the most useful
		// of the six documented computer functions.
		return game.NewCommand(game.VerbComputer, game.Number(0))
	case game.PromptCoordinates:
		return game.NewCommand(game.VerbComputer,
			game.Coord{Row: state.Position.Quadrant.Row, Col: state.Position.Quadrant.Col})
	case game.PromptRepair:
		// Dockside repairs cost a little time and fix everything.
		return game.NewCommand(game.VerbAcknowledge, game.Token("Y"))
	case game.PromptAye:
		return game.NewCommand(game.VerbQuit, game.Token("AYE"))
	default:
		return game.NewCommand(game.VerbAcknowledge)
	}
}

// command picks the next verb at the main prompt. The rule order encodes
// the priorities: know the quadrant, survive, then shoot, then reposition.
func (c *Cheat) command(state *game.GameState) game.Command {
	pick := func(v game.Verb) (game.Command, bool) {
		if game.IsLegal(state, v) {
			return game.NewCommand(v), true
		}
		return game.Command{}, false
	}

	scanStale := !c.scanned || state.TurnIndex-c.lastScanTurn >= scanStaleTurns
	if scanStale {
		if cmd, ok := pick(game.VerbScanShort); ok {
			c.scanned = true
			c.lastScanTurn = state.TurnIndex
			return cmd
		}
	}

	inCombat := len(state.Threats) > 0
	if inCombat {
		if state.ShieldsLow() && state.Resource(game.ResourceEnergy) > shieldTarget {
			if cmd, ok := pick(game.VerbShieldControl); ok {
				return cmd
			}
		}
		if cmd, ok := pick(game.VerbFireTorpedo); ok {
			return cmd
		}
		// Phasers are never fired into an empty quadrant; here the scan
		// has already confirmed at least one hostile.
		if state.Resource(game.ResourceEnergy) > phaserMargin {
			if cmd, ok := pick(game.VerbFirePhasers); ok {
				return cmd
			}
		}
		// Out of teeth. Run for the next quadrant.
		c.retreatCourse = c.awayFromThreats(state)
		return game.NewCommand(game.VerbMove)
	}

	if len(state.DamagedSystems) > 0 || state.Resource(game.ResourceEnergy) < 500 {
		if cmd, ok := pick(game.VerbDock); ok {
			return cmd
		}
	}

	if cmd, ok := pick(game.VerbScanLong); ok && c.exploreStep%4 == 0 {
		c.exploreStep++
		return cmd
	}
	c.exploreStep++
	c.retreatCourse = 0
	return game.NewCommand(game.VerbMove)
}

// moveCourse answers the NAV course prompt. A retreat decided at the
// command prompt reuses the stored heading; docking steers at the scanned
// starbase; exploration sweeps headings in a fixed rotation.
func (c *Cheat) moveCourse(state *game.GameState) float64 {
	if c.retreatCourse != 0 {
		course := c.retreatCourse
		c.retreatCourse = 0
		return course
	}
	if state.StarbaseInQuadrant && len(state.DamagedSystems) > 0 {
		// Navigating alongside the starbase docks the ship.
		return courseBetween(state.Position.Sector, nearestStarbaseGuess(state))
	}
	headings := [...]float64{1, 3, 5, 7, 2, 4, 6, 8}
	return headings[c.exploreStep%len(headings)]
}

// warp answers the warp factor prompt. In-quadrant maneuvers use a fraction
// of a sector; quadrant hops use warp 2 unless the engines cap it.
func (c *Cheat) warp(state *game.GameState) float64 {
	_, hi, ok := game.ParseWarpFactorRange(state.LastPrompt.Raw)
	if !ok {
		hi = 8
		if state.SystemDamaged(game.SystemWarpEngines) {
			hi = 0.2
		}
	}
	want := 2.0
	if len(state.Threats) > 0 || state.StarbaseInQuadrant {
		want = 0.5
	}
	return math.Min(want, hi)
}

// torpedoCourse aims at the nearest scanned threat. With no scan data the
// shot still has to go somewhere the game accepts.
func (c *Cheat) torpedoCourse(state *game.GameState) float64 {
	target, ok := c.nearestThreat(state)
	if !ok {
		return 1
	}
	return courseBetween(state.Position.Sector, target.Sector)
}

// shieldUnits tops the shields up to the combat target without draining
// the reactor below fighting strength.
func (c *Cheat) shieldUnits(state *game.GameState) int {
	avail := state.Resource(game.ResourceEnergy)
	if n, ok := game.ParseEnergyAvailable(state.LastPrompt.Raw); ok {
		avail = n
	}
	want := shieldTarget
	if want > avail/2 {
		want = avail / 2
	}
	if want < 0 {
		want = 0
	}
	return want
}

// phaserUnits charges enough to finish the scanned threats plus a margin,
// capped by available energy.
func (c *Cheat) phaserUnits(state *game.GameState) int {
	avail := state.Resource(game.ResourceEnergy)
	if n, ok := game.ParseEnergyAvailable(state.LastPrompt.Raw); ok {
		avail = n
	}
	total := 0
	for _, t := range state.Threats {
		total += t.Strength
	}
	want := total + phaserMargin
	if want > avail {
		want = avail
	}
	if want < 1 {
		want = 1
	}
	return want
}

// nearestThreat returns the scanned threat closest to the ship.
func (c *Cheat) nearestThreat(state *game.GameState) (game.Threat, bool) {
	if len(state.Threats) == 0 {
		return game.Threat{}, false
	}
	best := state.Threats[0]
	bestDist := sectorDistance(state.Position.Sector, best.Sector)
	for _, t := range state.Threats[1:] {
		if d := sectorDistance(state.Position.Sector, t.Sector); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, true
}

// awayFromThreats picks the heading opposite the nearest threat.
func (c *Cheat) awayFromThreats(state *game.GameState) float64 {
	target, ok := c.nearestThreat(state)
	if !ok {
		return 5
	}
	course := courseBetween(state.Position.Sector, target.Sector) + 4
	if course >= 9 {
		course -= 8
	}
	return course
}

// nearestStarbaseGuess approximates a docking target when the scan flagged
// a starbase but the tracked state keeps no starbase sector. Heading for
// the quadrant center maximizes the chance of passing alongside it.
func nearestStarbaseGuess(state *game.GameState) game.Coordinate {
	return game.Coordinate{Row: game.GridSize / 2, Col: game.GridSize / 2}
}

// courseBetween converts a sector displacement into the game's clock-face
// course, where 1 points at increasing columns and courses grow
// counterclockwise through 9, which wraps back to 1.
func courseBetween(from, to game.Coordinate) float64 {
	dx := float64(to.Col - from.Col)
	dy := float64(from.Row - to.Row)
	if dx == 0 && dy == 0 {
		return 1
	}
	course := 1 + 4*math.Atan2(dy, dx)/math.Pi
	if course < 1 {
		course += 8
	}
	return course
}

// sectorDistance is the squared euclidean distance between two sectors.
func sectorDistance(a, b game.Coordinate) int {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return dr*dr + dc*dc
}
