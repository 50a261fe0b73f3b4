package game

import (
	"regexp"
	"strconv"
	"strings"
)

// PromptKind classifies what a detected prompt is asking for.
type PromptKind int

const (
	PromptUnknown PromptKind = iota
	PromptCommand
	PromptCourse
	PromptWarpFactor
	PromptTorpedoCourse
	PromptShieldUnits
	PromptPhaserUnits
	PromptComputer
	PromptCoordinates
	PromptRepair
	PromptAye
	PromptAcknowledge
)

var promptKindNames = map[PromptKind]string{
	PromptUnknown:       "unknown",
	PromptCommand:       "command",
	PromptCourse:        "course",
	PromptWarpFactor:    "warp_factor",
	PromptTorpedoCourse: "torpedo_course",
	PromptShieldUnits:   "shield_units",
	PromptPhaserUnits:   "phaser_units",
	PromptComputer:      "computer",
	PromptCoordinates:   "coordinates",
	PromptRepair:        "repair",
	PromptAye:           "aye",
	PromptAcknowledge:   "acknowledge",
}

func (k PromptKind) String() string {
	if name, ok := promptKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// promptMarkers are textual cues that the interpreter is waiting for input.
// Matching is contains-based so the exact punctuation may drift between
// interpreter implementations.
var promptMarkers = []string{
	"COMMAND?",
	"COURSE (0-9)",
	"COURSE (1-9)",
	"WARP FACTOR",
	"PHOTON TORPEDO COURSE",
	"NUMBER OF UNITS TO SHIELDS",
	"NUMBER OF UNITS TO FIRE",
	"COMPUTER ACTIVE AND AWAITING COMMAND",
	"COORDINATES (X,Y)",
	"LET HIM STEP FORWARD AND ENTER 'AYE'",
	"WILL YOU AUTHORIZE THE REPAIR ORDER",
	"ENERGY AVAILABLE =",
	"HIT ANY KEY",
	"PRESS ANY KEY",
	"WHEN READY",
}

// menuLineRe matches the command help menu ("NAV  (TO SET COURSE)" and
// friends), which mentions commands without asking for one.
var menuLineRe = regexp.MustCompile(`^\s*(NAV|SRS|LRS|PHA|TOR|SHE|DAM|COM|XXX)\s+\(`)

// antiPrompts are lines that contain prompt-like words but are status
// chatter, never input requests.
var antiPrompts = []string{
	"NOW ENTERING",
	"PLEASE ENTER",
	"FROM ENTERPRISE TO",
	"UNIT HIT ON ENTERPRISE",
	"THE ENTERPRISE HAS BEEN DESTROYED",
	"PHASERS LOCKED ON TARGET",
	"ENTER ONE OF THE FOLLOWING",
}

// isPrompt reports whether a completed line is asking for input.
func isPrompt(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if menuLineRe.MatchString(trimmed) {
		return false
	}
	for _, anti := range antiPrompts {
		if strings.Contains(trimmed, anti) {
			return false
		}
	}
	for _, marker := range promptMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	// BASIC INPUT statements emit a bare "? " with no newline; the
	// transport surfaces the partial line, so a trailing question mark is
	// itself a prompt.
	return strings.HasSuffix(trimmed, "?")
}

// classifyPrompt maps a prompt line to its kind. context carries recent
// lines, newest last, for resolving a bare "?" emitted on its own line.
func classifyPrompt(line string, context []string) PromptKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "?" {
		// Look back a few lines for the question that preceded the
		// bare INPUT marker.
		for i := len(context) - 1; i >= 0 && i >= len(context)-4; i-- {
			if kind := classifyPromptText(context[i]); kind != PromptUnknown {
				return kind
			}
		}
		return PromptUnknown
	}
	return classifyPromptText(trimmed)
}

func classifyPromptText(line string) PromptKind {
	switch {
	case strings.Contains(line, "PHOTON TORPEDO COURSE"):
		return PromptTorpedoCourse
	case strings.Contains(line, "COURSE (0-9)") || strings.Contains(line, "COURSE (1-9)"):
		return PromptCourse
	case strings.Contains(line, "WARP FACTOR"):
		return PromptWarpFactor
	case strings.Contains(line, "NUMBER OF UNITS TO SHIELDS"):
		return PromptShieldUnits
	case strings.Contains(line, "NUMBER OF UNITS TO FIRE"):
		return PromptPhaserUnits
	case strings.Contains(line, "COMPUTER ACTIVE AND AWAITING COMMAND"):
		return PromptComputer
	case strings.Contains(line, "COORDINATES (X,Y)"):
		return PromptCoordinates
	case strings.Contains(line, "WILL YOU AUTHORIZE THE REPAIR ORDER"):
		return PromptRepair
	case strings.Contains(line, "LET HIM STEP FORWARD AND ENTER 'AYE'"):
		return PromptAye
	case strings.Contains(line, "ENERGY AVAILABLE ="):
		// Shield control asks "ENERGY AVAILABLE = n NUMBER OF UNITS TO
		// SHIELDS"; a lone energy prompt belongs to phaser fire.
		return PromptPhaserUnits
	case strings.Contains(line, "COMMAND"):
		return PromptCommand
	case strings.Contains(line, "HIT ANY KEY"),
		strings.Contains(line, "PRESS ANY KEY"),
		strings.Contains(line, "WHEN READY"):
		return PromptAcknowledge
	}
	return PromptUnknown
}

var (
	energyAvailableRe = regexp.MustCompile(`ENERGY\s+AVAILABLE\s*=\s*(\d+)`)
	warpRangeRe       = regexp.MustCompile(`WARP\s+FACTOR\s*\((\d+(?:\.\d+)?)-(\d+(?:\.\d+)?)\)`)
)

// ParseEnergyAvailable extracts the available energy advertised by shield
// and phaser prompts, e.g. "ENERGY AVAILABLE = 3000 NUMBER OF UNITS TO
// SHIELDS".
func ParseEnergyAvailable(line string) (int, bool) {
	m := energyAvailableRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseWarpFactorRange extracts the permitted warp range from prompts like
// "WARP FACTOR (0-8)?" or "WARP FACTOR (0-0.2)?" when the engines are
// damaged.
func ParseWarpFactorRange(line string) (min, max float64, ok bool) {
	m := warpRangeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(m[1], 64)
	hi, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
