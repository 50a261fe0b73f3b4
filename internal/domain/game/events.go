package game

// ParseEvent is a transient classification of interpreter output. Events
// are produced by the Parser and consumed exactly once by the StateTracker;
// nothing retains them afterwards.
type ParseEvent interface {
	isParseEvent()
}

// PromptDetected signals that the interpreter is waiting for input. It is
// the synchronization point at which the player may consult its strategy.
type PromptDetected struct {
	Prompt Prompt
}

// StatusBlock carries the structured fields decomposed from one or more
// status lines. Nil pointer fields were not present in the block and must
// not disturb previously tracked values.
type StatusBlock struct {
	Resources map[Resource]int
	Quadrant  *Coordinate
	Sector    *Coordinate
	Condition Condition

	Stardate      *int
	TimeRemaining *int
	Klingons      *int
	Starbases     *int
	QuadrantName  string

	Damage   map[System]int
	Repaired []System

	// Threats is only meaningful when ThreatsScanned is set: an empty
	// scan legitimately clears the threat list, while a block without a
	// scan says nothing about threats.
	Threats        []Threat
	ThreatsScanned bool
	StarbaseSeen   bool

	// Anomalies counts negative readings clamped to zero.
	Anomalies int
}

// Message is any line the parser does not recognize. Interpreter-specific
// chatter must never block progress.
type Message struct {
	Text string
}

// GameOver is a victory or defeat banner.
type GameOver struct {
	Banner string
	Won    bool
}

func (PromptDetected) isParseEvent() {}
func (StatusBlock) isParseEvent()    {}
func (Message) isParseEvent()        {}
func (GameOver) isParseEvent()       {}
