package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

func TestCommand_LineAtCommandPrompt(t *testing.T) {
	// Arrange
	cmd := game.NewCommand(game.VerbMove, game.Number(3), game.Number(2))

	// Act & Assert - the main prompt only ever receives the verb word
	assert.Equal(t, "NAV", cmd.Line(game.PromptCommand))
}

func TestCommand_LineAtFollowUpPrompts(t *testing.T) {
	tests := []struct {
		name string
		cmd  game.Command
		kind game.PromptKind
		want string
	}{
		{"whole course", game.NewCommand(game.VerbMove, game.Number(3)), game.PromptCourse, "3"},
		{"fractional warp", game.NewCommand(game.VerbMove, game.Number(0.2)), game.PromptWarpFactor, "0.2"},
		{"coordinates", game.NewCommand(game.VerbComputer, game.Coord{Row: 4, Col: 7}), game.PromptCoordinates, "4,7"},
		{"resignation", game.NewCommand(game.VerbQuit, game.Token("AYE")), game.PromptAye, "AYE"},
		{"acknowledge", game.NewCommand(game.VerbAcknowledge), game.PromptAcknowledge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Line(tt.kind))
		})
	}
}

func TestCommand_DockSerializesAsNavigation(t *testing.T) {
	// Arrange
	cmd := game.NewCommand(game.VerbDock)

	// Act & Assert - the game docks by navigating alongside a starbase
	assert.Equal(t, "NAV", cmd.Line(game.PromptCommand))
}

func TestCommand_String(t *testing.T) {
	cmd := game.NewCommand(game.VerbFireTorpedo, game.Number(5.5))
	assert.Equal(t, "fire_torpedo(5.5)", cmd.String())
}
