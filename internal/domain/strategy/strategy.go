package strategy

import (
	"errors"

	"github.com/andrescamacho/trekbot-go/internal/domain/game"
)

// ErrIllegalCommand reports a strategy defect: a decided command outside
// the state's legal-command set. The player surfaces it as a fatal
// configuration error before anything reaches the transport.
var ErrIllegalCommand = errors.New("strategy produced an illegal command")

// Strategy decides the next command from an immutable state snapshot.
//
// Implementations must not block, must not perform I/O, must terminate in
// bounded time, and must always return a syntactically legal command even
// with no informed move available (fall back to a scan or an
// acknowledgement). They may keep internal memory for their own heuristics
// but receive no other inputs than the snapshot.
type Strategy interface {
	// Name identifies the strategy in logs and benchmark reports.
	Name() string

	// Decide returns the next command for the pending prompt in state.
	Decide(state *game.GameState) game.Command

	// Reset clears internal memory between games.
	Reset()
}

// Validate rejects a decided command that the legality predicate does not
// permit at a main command prompt. Follow-up prompts carry only arguments
// for a verb the game already accepted, so only command prompts are
// checked.
func Validate(state *game.GameState, cmd game.Command) error {
	if state.LastPrompt.Kind != game.PromptCommand {
		return nil
	}
	if !game.IsLegal(state, cmd.Verb) {
		return errors.Join(ErrIllegalCommand, errors.New(string(cmd.Verb)))
	}
	return nil
}
