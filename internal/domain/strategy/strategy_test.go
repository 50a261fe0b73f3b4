package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
	"github.com/andrescamacho/trekbot-go/internal/domain/strategy"
)

func commandState() *game.GameState {
	s := game.NewGameState()
	s.Resources[game.ResourceEnergy] = 3000
	s.Resources[game.ResourceShields] = 500
	s.Resources[game.ResourceTorpedoes] = 10
	s.Position = game.Position{
		Quadrant: game.Coordinate{Row: 4, Col: 4},
		Sector:   game.Coordinate{Row: 4, Col: 4},
	}
	s.LastPrompt = game.Prompt{Raw: "COMMAND?", Kind: game.PromptCommand}
	return s
}

func promptState(raw string, kind game.PromptKind) *game.GameState {
	s := commandState()
	s.LastPrompt = game.Prompt{Raw: raw, Kind: kind}
	return s
}

func TestRandom_SameSeedReplaysSameDecisions(t *testing.T) {
	// Arrange
	a := strategy.NewRandom(42)
	b := strategy.NewRandom(42)
	prompts := []*game.GameState{
		commandState(),
		promptState("COURSE (0-9)?", game.PromptCourse),
		promptState("WARP FACTOR (0-8)?", game.PromptWarpFactor),
		commandState(),
		promptState("ENERGY AVAILABLE = 2500 NUMBER OF UNITS TO SHIELDS?", game.PromptShieldUnits),
		commandState(),
	}

	// Act & Assert
	for _, s := range prompts {
		assert.Equal(t, a.Decide(s).String(), b.Decide(s).String())
	}
}

func TestRandom_ResetRewindsTheStream(t *testing.T) {
	// Arrange
	r := strategy.NewRandom(7)
	s := commandState()
	var first []string
	for i := 0; i < 10; i++ {
		first = append(first, r.Decide(s).String())
	}

	// Act
	r.Reset()

	// Assert
	for i := 0; i < 10; i++ {
		assert.Equal(t, first[i], r.Decide(s).String())
	}
}

func TestRandom_InstancesAreIndependent(t *testing.T) {
	// Arrange - record the solo decision stream for one seed
	solo := strategy.NewRandom(11)
	s := commandState()
	var want []string
	for i := 0; i < 20; i++ {
		want = append(want, solo.Decide(s).String())
	}

	// Act - replay the same seed interleaved with a sibling instance
	a := strategy.NewRandom(11)
	b := strategy.NewRandom(99)
	var got []string
	for i := 0; i < 20; i++ {
		got = append(got, a.Decide(s).String())
		b.Decide(s)
	}

	// Assert - the sibling never disturbs a's stream
	assert.Equal(t, want, got)
}

func TestRandom_OnlyDecidesLegalVerbs(t *testing.T) {
	// Arrange - torpedoes gone and sensors down shrink the legal set
	r := strategy.NewRandom(1)
	s := commandState()
	s.Resources[game.ResourceTorpedoes] = 0
	s.DamagedSystems[game.SystemShortRangeSensors] = 2

	// Act & Assert
	for i := 0; i < 200; i++ {
		cmd := r.Decide(s)
		assert.True(t, game.IsLegal(s, cmd.Verb), "verb %s is not legal", cmd.Verb)
		assert.NotEqual(t, game.VerbQuit, cmd.Verb, "random play never resigns")
	}
}

func TestRandom_CourseStaysInRange(t *testing.T) {
	// Arrange
	r := strategy.NewRandom(3)
	s := promptState("COURSE (0-9)?", game.PromptCourse)

	// Act & Assert
	for i := 0; i < 100; i++ {
		cmd := r.Decide(s)
		require.Len(t, cmd.Args, 1)
		course := float64(cmd.Args[0].(game.Number))
		assert.GreaterOrEqual(t, course, 1.0)
		assert.Less(t, course, 9.0)
	}
}

func TestRandom_WarpRespectsDamagedEngines(t *testing.T) {
	// Arrange
	r := strategy.NewRandom(5)
	s := promptState("WARP FACTOR (0-0.2)?", game.PromptWarpFactor)
	s.DamagedSystems[game.SystemWarpEngines] = 3

	// Act & Assert
	for i := 0; i < 100; i++ {
		warp := float64(r.Decide(s).Args[0].(game.Number))
		assert.LessOrEqual(t, warp, 0.2)
		assert.Greater(t, warp, 0.0)
	}
}

func TestRandom_ShieldUnitsBoundedByAdvertisedEnergy(t *testing.T) {
	// Arrange
	r := strategy.NewRandom(9)
	s := promptState("ENERGY AVAILABLE = 800 NUMBER OF UNITS TO SHIELDS?", game.PromptShieldUnits)

	// Act & Assert
	for i := 0; i < 100; i++ {
		units := int(float64(r.Decide(s).Args[0].(game.Number)))
		assert.GreaterOrEqual(t, units, 0)
		assert.LessOrEqual(t, units, 800)
	}
}

func TestRandom_ComputerCodeStaysInDocumentedRange(t *testing.T) {
	// Arrange - codes above 5 crash some interpreter builds
	r := strategy.NewRandom(11)
	s := promptState("COMPUTER ACTIVE AND AWAITING COMMAND?", game.PromptComputer)

	// Act & Assert
	for i := 0; i < 100; i++ {
		code := int(float64(r.Decide(s).Args[0].(game.Number)))
		assert.GreaterOrEqual(t, code, 0)
		assert.LessOrEqual(t, code, 5)
	}
}

func TestCheat_IsDeterministic(t *testing.T) {
	// Arrange
	a := strategy.NewCheat()
	b := strategy.NewCheat()
	states := []*game.GameState{
		commandState(),
		promptState("COURSE (0-9)?", game.PromptCourse),
		promptState("WARP FACTOR (0-8)?", game.PromptWarpFactor),
		commandState(),
	}

	// Act & Assert
	for _, s := range states {
		assert.Equal(t, a.Decide(s).String(), b.Decide(s).String())
	}
}

func TestCheat_ScansBeforeAnythingElse(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()

	// Act
	cmd := c.Decide(s)

	// Assert - no threat picture yet, so look first
	assert.Equal(t, game.VerbScanShort, cmd.Verb)
}

func TestCheat_PrefersTorpedoesInCombat(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()
	s.Threats = []game.Threat{{Sector: game.Coordinate{Row: 4, Col: 6}, Strength: 200}}
	c.Decide(s) // initial scan

	// Act
	cmd := c.Decide(s)

	// Assert
	assert.Equal(t, game.VerbFireTorpedo, cmd.Verb)
}

func TestCheat_FallsBackToPhasersWithoutTorpedoes(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()
	s.Resources[game.ResourceTorpedoes] = 0
	s.Threats = []game.Threat{{Sector: game.Coordinate{Row: 2, Col: 2}, Strength: 200}}
	c.Decide(s) // initial scan

	// Act
	cmd := c.Decide(s)

	// Assert
	assert.Equal(t, game.VerbFirePhasers, cmd.Verb)
}

func TestCheat_NeverFiresPhasersAtEmptySpace(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()

	// Act - a long stretch of quiet turns
	for i := 0; i < 50; i++ {
		s.TurnIndex = i
		cmd := c.Decide(s)

		// Assert
		assert.NotEqual(t, game.VerbFirePhasers, cmd.Verb)
		assert.NotEqual(t, game.VerbFireTorpedo, cmd.Verb)
	}
}

func TestCheat_RaisesShieldsWhenLowInCombat(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()
	s.Resources[game.ResourceShields] = 50
	s.Threats = []game.Threat{{Sector: game.Coordinate{Row: 1, Col: 1}, Strength: 200}}
	c.Decide(s) // initial scan

	// Act
	cmd := c.Decide(s)

	// Assert
	assert.Equal(t, game.VerbShieldControl, cmd.Verb)
}

func TestCheat_DocksWhenDamagedNearStarbase(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := commandState()
	s.StarbaseInQuadrant = true
	s.DamagedSystems[game.SystemPhasers] = 2
	c.Decide(s) // initial scan

	// Act
	cmd := c.Decide(s)

	// Assert
	assert.Equal(t, game.VerbDock, cmd.Verb)
}

func TestCheat_TorpedoCourseAimsAtNearestThreat(t *testing.T) {
	// Arrange - ship at 4,4 with a threat due east
	c := strategy.NewCheat()
	s := promptState("PHOTON TORPEDO COURSE (1-9)?", game.PromptTorpedoCourse)
	s.Threats = []game.Threat{
		{Sector: game.Coordinate{Row: 1, Col: 1}, Strength: 200},
		{Sector: game.Coordinate{Row: 4, Col: 6}, Strength: 200},
	}

	// Act
	cmd := c.Decide(s)

	// Assert - course 1 points at increasing columns
	require.Len(t, cmd.Args, 1)
	assert.InDelta(t, 1.0, float64(cmd.Args[0].(game.Number)), 0.01)
}

func TestCheat_TorpedoCourseNorth(t *testing.T) {
	// Arrange - threat straight up from the ship
	c := strategy.NewCheat()
	s := promptState("PHOTON TORPEDO COURSE (1-9)?", game.PromptTorpedoCourse)
	s.Threats = []game.Threat{{Sector: game.Coordinate{Row: 2, Col: 4}, Strength: 200}}

	// Act
	cmd := c.Decide(s)

	// Assert - course 3 points at decreasing rows
	assert.InDelta(t, 3.0, float64(cmd.Args[0].(game.Number)), 0.01)
}

func TestCheat_ShieldUnitsNeverExceedHalfTheReactor(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := promptState("ENERGY AVAILABLE = 600 NUMBER OF UNITS TO SHIELDS?", game.PromptShieldUnits)

	// Act
	units := int(float64(c.Decide(s).Args[0].(game.Number)))

	// Assert
	assert.Equal(t, 300, units)
}

func TestCheat_PhaserChargeCoversScannedStrength(t *testing.T) {
	// Arrange
	c := strategy.NewCheat()
	s := promptState("ENERGY AVAILABLE = 3000 NUMBER OF UNITS TO FIRE?", game.PromptPhaserUnits)
	s.Threats = []game.Threat{
		{Sector: game.Coordinate{Row: 1, Col: 1}, Strength: 200},
		{Sector: game.Coordinate{Row: 2, Col: 2}, Strength: 150},
	}

	// Act
	units := int(float64(c.Decide(s).Args[0].(game.Number)))

	// Assert - total strength plus the finishing margin
	assert.Equal(t, 450, units)
}

func TestValidate_RejectsIllegalVerbAtCommandPrompt(t *testing.T) {
	// Arrange
	s := commandState()
	s.Resources[game.ResourceTorpedoes] = 0

	// Act
	err := strategy.Validate(s, game.NewCommand(game.VerbFireTorpedo))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, strategy.ErrIllegalCommand)
}

func TestValidate_FollowUpPromptsAreNotChecked(t *testing.T) {
	// Arrange - the verb was accepted before the tubes ran dry
	s := promptState("PHOTON TORPEDO COURSE (1-9)?", game.PromptTorpedoCourse)
	s.Resources[game.ResourceTorpedoes] = 0

	// Act & Assert
	assert.NoError(t, strategy.Validate(s, game.NewCommand(game.VerbFireTorpedo, game.Number(1))))
}
