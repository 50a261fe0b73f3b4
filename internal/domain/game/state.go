package game

// Outcome is the terminal classification of a game session.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
	OutcomeAborted    Outcome = "aborted"
)

// Terminal reports whether the outcome ends the game. A terminal outcome
// never transitions back to in_progress.
func (o Outcome) Terminal() bool {
	return o != OutcomeInProgress && o != ""
}

// Resource identifies a consumable ship resource tracked in GameState.
type Resource string

const (
	ResourceEnergy      Resource = "energy"
	ResourceShields     Resource = "shields"
	ResourceTorpedoes   Resource = "torpedoes"
	ResourceLifeSupport Resource = "life_support"
)

// System identifies a ship system that can be damaged and repaired.
type System string

const (
	SystemWarpEngines       System = "warp_engines"
	SystemShortRangeSensors System = "short_range_sensors"
	SystemLongRangeSensors  System = "long_range_sensors"
	SystemPhasers           System = "phaser_control"
	SystemTorpedoTubes      System = "photon_tubes"
	SystemDamageControl     System = "damage_control"
	SystemShieldControl     System = "shield_control"
	SystemComputer          System = "library_computer"
)

// Condition is the alert state reported by the game.
type Condition string

const (
	ConditionGreen  Condition = "GREEN"
	ConditionYellow Condition = "YELLOW"
	ConditionRed    Condition = "RED"
	ConditionDocked Condition = "DOCKED"
)

// Coordinate is a bounded grid position. The galaxy and each quadrant are
// 8x8 grids with 1-based coordinates.
type Coordinate struct {
	Row int
	Col int
}

// GridSize is the side length of both the galaxy and quadrant grids.
const GridSize = 8

// InGrid reports whether the coordinate lies inside the game grid.
func (c Coordinate) InGrid() bool {
	return c.Row >= 1 && c.Row <= GridSize && c.Col >= 1 && c.Col <= GridSize
}

// Position locates the ship by quadrant within the galaxy and sector within
// the quadrant.
type Position struct {
	Quadrant Coordinate
	Sector   Coordinate
}

// Threat is a hostile entity visible in the current quadrant.
type Threat struct {
	Sector   Coordinate
	Strength int
}

// Prompt is the most recent unconsumed interpreter prompt.
type Prompt struct {
	Raw  string
	Kind PromptKind
}

// GameState is the authoritative structured snapshot reconstructed from
// interpreter output. It is owned by the StateTracker; strategies receive
// copies via Snapshot and must treat them as immutable.
type GameState struct {
	TurnIndex      int
	Position       Position
	Resources      map[Resource]int
	Threats        []Threat
	DamagedSystems map[System]int
	LastPrompt     Prompt
	Outcome        Outcome

	Stardate          int
	TimeRemaining     int
	KlingonsRemaining int
	Starbases         int
	Condition         Condition
	QuadrantName      string

	// StarbaseInQuadrant is derived from the latest short range scan.
	StarbaseInQuadrant bool

	// Anomalies counts clamped negative readings and other repaired
	// inconsistencies observed while folding parser output.
	Anomalies int
}

// NewGameState returns the initial pre-launch state.
func NewGameState() *GameState {
	return &GameState{
		Resources:      make(map[Resource]int),
		DamagedSystems: make(map[System]int),
		Outcome:        OutcomeInProgress,
	}
}

// Resource returns the tracked level for r, zero if never reported.
func (s *GameState) Resource(r Resource) int {
	return s.Resources[r]
}

// SystemDamaged reports whether the named system is currently inoperative.
func (s *GameState) SystemDamaged(sys System) bool {
	_, damaged := s.DamagedSystems[sys]
	return damaged
}

// InCombat reports whether the game has signalled a red alert.
func (s *GameState) InCombat() bool {
	return s.Condition == ConditionRed
}

// ShieldsLow reports a dangerously low shield level.
func (s *GameState) ShieldsLow() bool {
	return s.Resource(ResourceShields) < 200
}

// Snapshot returns a deep copy safe to hand to a strategy.
func (s *GameState) Snapshot() *GameState {
	cp := *s
	cp.Resources = make(map[Resource]int, len(s.Resources))
	for k, v := range s.Resources {
		cp.Resources[k] = v
	}
	cp.DamagedSystems = make(map[System]int, len(s.DamagedSystems))
	for k, v := range s.DamagedSystems {
		cp.DamagedSystems[k] = v
	}
	cp.Threats = append([]Threat(nil), s.Threats...)
	return &cp
}
