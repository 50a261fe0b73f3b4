package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

func TestParser_StatusLine(t *testing.T) {
	// Arrange
	p := game.NewParser()

	// Act
	events, err := p.ParseLine("        TOTAL ENERGY       2622")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	block, ok := events[0].(game.StatusBlock)
	require.True(t, ok)
	assert.Equal(t, 2622, block.Resources[game.ResourceEnergy])
}

func TestParser_CombinedStatusFields(t *testing.T) {
	// Arrange
	p := game.NewParser()

	// Act
	events, err := p.ParseLine("   QUADRANT  3,5   SECTOR 4,4   CONDITION *RED*")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	block := events[0].(game.StatusBlock)
	require.NotNil(t, block.Quadrant)
	assert.Equal(t, game.Coordinate{Row: 3, Col: 5}, *block.Quadrant)
	require.NotNil(t, block.Sector)
	assert.Equal(t, game.Coordinate{Row: 4, Col: 4}, *block.Sector)
	assert.Equal(t, game.ConditionRed, block.Condition)
}

func TestParser_PromptDetection(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind game.PromptKind
	}{
		{"command", "COMMAND?", game.PromptCommand},
		{"course", "COURSE (0-9)?", game.PromptCourse},
		{"warp", "WARP FACTOR (0-8)?", game.PromptWarpFactor},
		{"torpedo", "PHOTON TORPEDO COURSE (1-9)?", game.PromptTorpedoCourse},
		{"shields", "ENERGY AVAILABLE = 3000 NUMBER OF UNITS TO SHIELDS?", game.PromptShieldUnits},
		{"phasers", "NUMBER OF UNITS TO FIRE?", game.PromptPhaserUnits},
		{"computer", "COMPUTER ACTIVE AND AWAITING COMMAND?", game.PromptComputer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			p := game.NewParser()

			// Act
			events, err := p.ParseLine(tt.line)

			// Assert
			require.NoError(t, err)
			var prompt *game.PromptDetected
			for _, ev := range events {
				if pd, ok := ev.(game.PromptDetected); ok {
					prompt = &pd
				}
			}
			require.NotNil(t, prompt, "expected a prompt event")
			assert.Equal(t, tt.kind, prompt.Prompt.Kind)
		})
	}
}

func TestParser_BarePromptClassifiedFromLookback(t *testing.T) {
	// Arrange
	p := game.NewParser()
	_, err := p.ParseLine("WARP FACTOR (0-8)")
	require.NoError(t, err)

	// Act - BASIC INPUT emits the question mark on its own
	events, err := p.ParseLine("? ")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	prompt := events[0].(game.PromptDetected)
	assert.Equal(t, game.PromptWarpFactor, prompt.Prompt.Kind)
}

func TestParser_MenuLinesAreNotPrompts(t *testing.T) {
	// Arrange
	p := game.NewParser()

	// Act
	events, err := p.ParseLine("   NAV  (TO SET COURSE)")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	_, isMessage := events[0].(game.Message)
	assert.True(t, isMessage, "menu line must be chatter, not a prompt")
}

func TestParser_InterleavedChatterDoesNotDisturbStatus(t *testing.T) {
	// Arrange
	p := game.NewParser()
	lines := []string{
		"THE HATCH DOORS CLOSE WITH A HISS",
		"SHIELDS NOW AT 940 UNITS",
		"A VOICE CRACKLES OVER THE INTERCOM",
	}

	// Act
	var blocks []game.StatusBlock
	for _, line := range lines {
		events, err := p.ParseLine(line)
		require.NoError(t, err)
		for _, ev := range events {
			if b, ok := ev.(game.StatusBlock); ok {
				blocks = append(blocks, b)
			}
		}
	}

	// Assert
	require.Len(t, blocks, 1)
	assert.Equal(t, 940, blocks[0].Resources[game.ResourceShields])
}

func TestParser_MalformedStatusLine(t *testing.T) {
	// Arrange
	p := game.NewParser()

	// Act - a status label with its number torn off mid-write
	events, err := p.ParseLine("SHIELDS = GARBLED")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrMalformedState)
	assert.Empty(t, events)
}

func TestParser_GameOverBanners(t *testing.T) {
	tests := []struct {
		line string
		won  bool
	}{
		{"CONGRATULATIONS -- MISSION ACCOMPLISHED", true},
		{"THE LAST KLINGON BATTLE CRUISER IN THE GALAXY HAS BEEN DESTROYED", true},
		{"THE ENTERPRISE HAS BEEN DESTROYED. THE FEDERATION WILL BE CONQUERED", false},
		{"IT IS STARDATE 3230. MISSION FAILED", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			// Arrange
			p := game.NewParser()

			// Act
			events, err := p.ParseLine(tt.line)

			// Assert
			require.NoError(t, err)
			require.Len(t, events, 1)
			over := events[0].(game.GameOver)
			assert.Equal(t, tt.won, over.Won)
		})
	}
}

func TestParser_ShortRangeScan(t *testing.T) {
	// Arrange
	p := game.NewParser()
	lines := []string{
		"---------------------------------",
		"                        ",
		"   +K+                  ",
		"         <*>            ",
		"                        ",
		"                  >!<   ",
		"                        ",
		"                        ",
		"                        ",
		"---------------------------------",
	}

	// Act
	var scan *game.StatusBlock
	for _, line := range lines {
		events, err := p.ParseLine(line)
		require.NoError(t, err)
		for _, ev := range events {
			if b, ok := ev.(game.StatusBlock); ok && b.ThreatsScanned {
				scan = &b
			}
		}
	}

	// Assert
	require.NotNil(t, scan, "closing separator must publish the scan")
	require.Len(t, scan.Threats, 1)
	assert.Equal(t, game.Coordinate{Row: 2, Col: 2}, scan.Threats[0].Sector)
	assert.True(t, scan.StarbaseSeen)
	require.NotNil(t, scan.Sector)
	assert.Equal(t, game.Coordinate{Row: 3, Col: 4}, *scan.Sector)
}

func TestParser_ScanRowsCarryStatusColumn(t *testing.T) {
	// Arrange - the status block prints to the right of the grid
	p := game.NewParser()
	_, err := p.ParseLine("---------------------------------")
	require.NoError(t, err)

	// Act
	events, err := p.ParseLine("   +K+                      STARDATE           3215")

	// Assert
	require.NoError(t, err)
	var block *game.StatusBlock
	for _, ev := range events {
		if b, ok := ev.(game.StatusBlock); ok {
			block = &b
		}
	}
	require.NotNil(t, block)
	require.NotNil(t, block.Stardate)
	assert.Equal(t, 3215, *block.Stardate)
}

func TestParser_PromptFlushesUnterminatedScan(t *testing.T) {
	// Arrange
	p := game.NewParser()
	_, err := p.ParseLine("---------------------------------")
	require.NoError(t, err)
	_, err = p.ParseLine("   +K+                  ")
	require.NoError(t, err)

	// Act
	events, err := p.ParseLine("COMMAND?")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	block, ok := events[0].(game.StatusBlock)
	require.True(t, ok)
	assert.True(t, block.ThreatsScanned)
	assert.Len(t, block.Threats, 1)
	_, ok = events[1].(game.PromptDetected)
	assert.True(t, ok)
}

func TestParser_LongRangeScanDoesNotEraseThreatPicture(t *testing.T) {
	// Arrange - a short range sighting followed by a long range printout,
	// whose dashed frame must not read as an empty grid
	p := game.NewParser()
	tracker := game.NewStateTracker()
	lines := []string{
		"---------------------------------",
		"   +K+                  ",
		"         <*>            ",
		"                  >!<   ",
		"                        ",
		"                        ",
		"                        ",
		"                        ",
		"                        ",
		"---------------------------------",
		"LONG RANGE SCAN FOR QUADRANT 4 , 5",
		"-------------------",
		": 008 : 000 : 106 :",
		": 000 : 304 : 000 :",
		": 000 : 000 : 205 :",
		"-------------------",
		"COMMAND?",
	}

	// Act
	for _, line := range lines {
		events, err := p.ParseLine(line)
		require.NoError(t, err)
		for _, ev := range events {
			tracker.Apply(ev)
		}
	}

	// Assert
	state := tracker.Snapshot()
	require.Len(t, state.Threats, 1)
	assert.True(t, state.StarbaseInQuadrant)
	assert.Equal(t, game.PromptCommand, state.LastPrompt.Kind)
}

func TestParser_GalaxyRecordFramesAreChatter(t *testing.T) {
	// Arrange - the computer's galaxy record uses the same dashed framing
	p := game.NewParser()
	lines := []string{
		"COMPUTER RECORD OF GALAXY FOR QUADRANT 4 , 5",
		"       1     2     3     4     5     6     7     8",
		"     ----- ----- ----- ----- ----- ----- ----- -----",
		" 4   008   000   106   000   304   000   205   000",
		"     ----- ----- ----- ----- ----- ----- ----- -----",
	}

	// Act
	var scans int
	for _, line := range lines {
		events, err := p.ParseLine(line)
		require.NoError(t, err)
		for _, ev := range events {
			if b, ok := ev.(game.StatusBlock); ok && b.ThreatsScanned {
				scans++
			}
		}
	}

	// Assert
	assert.Equal(t, 0, scans, "computer printout must not publish a scan")
}

func TestParser_DamageControlReport(t *testing.T) {
	// Arrange
	p := game.NewParser()
	lines := []string{
		"DAMAGE CONTROL REPORT",
		"DEVICE             STATE OF REPAIR",
		"WARP ENGINES            -2.5",
		"SHORT RANGE SENSORS      0.0",
		"PHASER CONTROL          -1.0",
	}

	// Act
	damage := map[game.System]int{}
	repaired := map[game.System]bool{}
	for _, line := range lines {
		events, err := p.ParseLine(line)
		require.NoError(t, err)
		for _, ev := range events {
			if b, ok := ev.(game.StatusBlock); ok {
				for sys, turns := range b.Damage {
					damage[sys] = turns
				}
				for _, sys := range b.Repaired {
					repaired[sys] = true
				}
			}
		}
	}

	// Assert
	assert.Equal(t, 3, damage[game.SystemWarpEngines])
	assert.Equal(t, 1, damage[game.SystemPhasers])
	assert.True(t, repaired[game.SystemShortRangeSensors])
	_, engineListed := damage[game.SystemShortRangeSensors]
	assert.False(t, engineListed)
}

func TestParser_NegativeReadingClampedAsAnomaly(t *testing.T) {
	// Arrange
	p := game.NewParser()

	// Act
	events, err := p.ParseLine("SHIELDS NOW AT -50 UNITS")

	// Assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	block := events[0].(game.StatusBlock)
	assert.Equal(t, 0, block.Resources[game.ResourceShields])
	assert.Equal(t, 1, block.Anomalies)
}

func TestParser_FlushPublishesPartialScan(t *testing.T) {
	// Arrange
	p := game.NewParser()
	_, err := p.ParseLine("---------------------------------")
	require.NoError(t, err)
	_, err = p.ParseLine("         +K+            ")
	require.NoError(t, err)

	// Act - stream ends mid-grid
	events := p.Flush()

	// Assert
	require.Len(t, events, 1)
	block := events[0].(game.StatusBlock)
	assert.True(t, block.ThreatsScanned)
	assert.Len(t, block.Threats, 1)
}
