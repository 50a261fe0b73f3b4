package game

// DefaultMalformedBudget is how many malformed status lines a game absorbs
// before the tracker gives up and aborts.
const DefaultMalformedBudget = 5

// StateTracker folds ParseEvents into the authoritative GameState, one
// event at a time in arrival order. Later fields may depend on earlier ones
// being current, so events are never reordered or batched.
type StateTracker struct {
	state       *GameState
	malformed   int
	budget      int
	promptFresh bool
}

// NewStateTracker returns a tracker with the initial game state and the
// default malformed-state retry budget.
func NewStateTracker() *StateTracker {
	return &StateTracker{
		state:  NewGameState(),
		budget: DefaultMalformedBudget,
	}
}

// Apply folds one event into the state. Events arriving after a terminal
// outcome are ignored.
func (t *StateTracker) Apply(ev ParseEvent) {
	if t.state.Outcome.Terminal() {
		return
	}

	switch e := ev.(type) {
	case StatusBlock:
		t.applyStatus(e)
	case PromptDetected:
		t.state.LastPrompt = e.Prompt
		t.promptFresh = true
	case GameOver:
		if e.Won {
			t.state.Outcome = OutcomeWon
		} else {
			t.state.Outcome = OutcomeLost
		}
	case Message:
		// Chatter carries no state.
	}
}

// applyStatus overwrites exactly the fields present in the block.
// Interpreters need not resend unchanged values every turn, so absent
// fields keep their previously tracked values.
func (t *StateTracker) applyStatus(block StatusBlock) {
	s := t.state
	for r, v := range block.Resources {
		if v < 0 {
			v = 0
			s.Anomalies++
		}
		s.Resources[r] = v
	}
	s.Anomalies += block.Anomalies

	if block.Quadrant != nil {
		s.Position.Quadrant = *block.Quadrant
	}
	if block.Sector != nil {
		s.Position.Sector = *block.Sector
	}
	if block.Condition != "" {
		s.Condition = block.Condition
	}
	if block.Stardate != nil {
		s.Stardate = *block.Stardate
	}
	if block.TimeRemaining != nil {
		s.TimeRemaining = *block.TimeRemaining
	}
	if block.Klingons != nil {
		s.KlingonsRemaining = *block.Klingons
	}
	if block.Starbases != nil {
		s.Starbases = *block.Starbases
	}
	if block.QuadrantName != "" {
		s.QuadrantName = block.QuadrantName
	}
	for sys, turns := range block.Damage {
		s.DamagedSystems[sys] = turns
	}
	for _, sys := range block.Repaired {
		delete(s.DamagedSystems, sys)
	}
	if block.ThreatsScanned {
		s.Threats = append([]Threat(nil), block.Threats...)
		s.StarbaseInQuadrant = block.StarbaseSeen
	}
}

// RecordMalformed consumes one unit of the retry budget. Once exhausted the
// game is aborted rather than tracked against a corrupt model.
func (t *StateTracker) RecordMalformed() {
	if t.state.Outcome.Terminal() {
		return
	}
	t.malformed++
	if t.malformed > t.budget {
		t.state.Outcome = OutcomeAborted
	}
}

// Abort forces a terminal aborted outcome unless the game already ended.
func (t *StateTracker) Abort() {
	if !t.state.Outcome.Terminal() {
		t.state.Outcome = OutcomeAborted
	}
}

// AdvanceTurn increments the turn counter after a command was sent. The
// counter never decreases.
func (t *StateTracker) AdvanceTurn() {
	t.state.TurnIndex++
}

// ConsumePrompt returns the pending prompt once. It reports false until a
// new PromptDetected arrives, which is the player's cue that the
// interpreter is not yet waiting for input.
func (t *StateTracker) ConsumePrompt() (Prompt, bool) {
	if !t.promptFresh {
		return Prompt{}, false
	}
	t.promptFresh = false
	return t.state.LastPrompt, true
}

// Outcome returns the current outcome.
func (t *StateTracker) Outcome() Outcome {
	return t.state.Outcome
}

// Turns returns the number of commands sent so far.
func (t *StateTracker) Turns() int {
	return t.state.TurnIndex
}

// Snapshot returns an immutable copy of the current state for strategies.
func (t *StateTracker) Snapshot() *GameState {
	return t.state.Snapshot()
}
