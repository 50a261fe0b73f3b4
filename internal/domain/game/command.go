package game

import (
	"strconv"
	"strings"
)

// Verb is the action a command performs. Verbs are game-level concepts;
// their textual protocol form is resolved by Line at send time.
type Verb string

const (
	VerbMove          Verb = "move"
	VerbFirePhasers   Verb = "fire_phasers"
	VerbFireTorpedo   Verb = "fire_torpedo"
	VerbShieldControl Verb = "shield_control"
	VerbDock          Verb = "dock"
	VerbScanShort     Verb = "scan_short"
	VerbScanLong      Verb = "scan_long"
	VerbDamageReport  Verb = "damage_report"
	VerbComputer      Verb = "computer"
	VerbQuit          Verb = "quit"

	// VerbAcknowledge answers report prompts that only want a carriage
	// return before the game continues.
	VerbAcknowledge Verb = "acknowledge"
)

// commandWords maps verbs to the Super Star Trek command vocabulary. Docking
// has no dedicated word: the game docks the ship when it navigates alongside
// a starbase, so dock serializes as a navigation command.
var commandWords = map[Verb]string{
	VerbMove:          "NAV",
	VerbFirePhasers:   "PHA",
	VerbFireTorpedo:   "TOR",
	VerbShieldControl: "SHE",
	VerbDock:          "NAV",
	VerbScanShort:     "SRS",
	VerbScanLong:      "LRS",
	VerbDamageReport:  "DAM",
	VerbComputer:      "COM",
	VerbQuit:          "XXX",
	VerbAcknowledge:   "",
}

// Arg is one typed command argument.
type Arg interface {
	text() string
}

// Number is a numeric argument. Whole values render without a decimal
// point, fractional values keep their shortest exact representation.
type Number float64

func (n Number) text() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// Coord is a coordinate-pair argument rendered as "row,col".
type Coord Coordinate

func (c Coord) text() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

// Token is a literal word argument used by yes/no and similar free-form
// answer prompts.
type Token string

func (t Token) text() string { return string(t) }

// Command is a strategy decision: a verb plus its ordered arguments.
// Commands are opaque to the transport, which only ever sees the rendered
// protocol line.
type Command struct {
	Verb Verb
	Args []Arg
}

// NewCommand builds a command from a verb and optional arguments.
func NewCommand(v Verb, args ...Arg) Command {
	return Command{Verb: v, Args: args}
}

// Line renders the single protocol line to send for the pending prompt.
// At the main command prompt the verb word is sent; at every follow-up
// prompt the interpreter already knows the verb, so only the arguments are
// sent.
func (c Command) Line(kind PromptKind) string {
	if kind == PromptCommand {
		return commandWords[c.Verb]
	}
	if len(c.Args) == 0 {
		return ""
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.text()
	}
	return strings.Join(parts, ",")
}

// String renders the command for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Verb)
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.text()
	}
	return string(c.Verb) + "(" + strings.Join(parts, ",") + ")"
}
