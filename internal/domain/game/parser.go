package game

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedState marks a status-like line whose numeric fields could not
// be decomposed. It is recoverable: the tracker keeps the last known-good
// state until a small retry budget is exhausted.
var ErrMalformedState = errors.New("malformed status line")

// defaultThreatStrength is assumed for enemies sighted on a short range
// scan; their true strength is only learned from combat messages.
const defaultThreatStrength = 200

// Parser converts raw interpreter lines into ParseEvents. It recognizes
// line shapes only and never interprets game semantics; anything it cannot
// classify becomes a Message so interpreter-specific chatter never blocks
// progress.
//
// Matching relies on structural cues (field labels, numeric token counts)
// rather than exact string equality, so the same parser survives the
// formatting drift between compatible interpreter implementations.
type Parser struct {
	recent []string

	scanActive   bool
	scanRow      int
	scanThreats  []Threat
	scanStarbase bool
	scanSector   *Coordinate

	chartActive bool

	inDamageReport bool
}

// NewParser returns a parser with empty lookback.
func NewParser() *Parser {
	return &Parser{}
}

var (
	energyRe      = regexp.MustCompile(`(?:TOTAL\s+)?ENERGY\s*[=:]?\s*(-?\d+)`)
	shieldsRe     = regexp.MustCompile(`SHIELDS\s*[=:]?\s*(-?\d+)`)
	shieldsNowRe  = regexp.MustCompile(`SHIELDS NOW AT\s*(-?\d+)`)
	torpedoesRe   = regexp.MustCompile(`(?:PHOTON\s+)?TORPEDOES\s*[=:]?\s*(-?\d+)`)
	lifeSupportRe = regexp.MustCompile(`LIFE\s+SUPPORT(?:\s+RESERVES)?\s*[=:]?\s*(-?\d+)`)
	klingonsRe    = regexp.MustCompile(`KLINGONS?\s+REMAINING\s*[=:]?\s*(\d+)`)
	timeLeftRe    = regexp.MustCompile(`TIME\s*[=:]\s*(\d+)`)
	stardateRe    = regexp.MustCompile(`STARDATE\s*[=:]?\s*(\d+)`)
	starbasesRe   = regexp.MustCompile(`(\d+)\s+STARBASE`)
	quadrantRe    = regexp.MustCompile(`QUADRANT\s*[=:]?\s*(\d+)\s*,\s*(\d+)`)
	sectorRe      = regexp.MustCompile(`SECTOR\s*[=:]?\s*(\d+)\s*,\s*(\d+)`)
	conditionRe   = regexp.MustCompile(`CONDITION\s*[=:]?\s*\*?(GREEN|YELLOW|RED|DOCKED)\*?`)
	quadNameRe    = regexp.MustCompile(`(?:NOW ENTERING|LOCATED IN)\s+([A-Z][A-Z ]*[A-Z])\s+QUADRANT`)

	// statusLabelRe decides whether a line claims to carry a numeric
	// status field at all. A matching line that yields no number is
	// malformed rather than ignorable chatter.
	statusLabelRe = regexp.MustCompile(`(TOTAL ENERGY|ENERGY|SHIELDS|PHOTON TORPEDOES|TORPEDOES|STARDATE|KLINGONS REMAINING|LIFE SUPPORT)\s*[=:]`)
	anyNumberRe   = regexp.MustCompile(`-?\d`)

	// chartHeaderRe announces a galaxy chart printout, whose dashed
	// framing is indistinguishable from the short range grid's.
	chartHeaderRe = regexp.MustCompile(`LONG RANGE SCAN|RECORD OF GALAXY`)

	damageRowRe    = regexp.MustCompile(`^\s*([A-Z][A-Z -]+?)\s+(-?\d+(?:\.\d+)?)\s*$`)
	damageNoticeRe = regexp.MustCompile(`([A-Z][A-Z -]+?)\s+(?:ARE\s+|IS\s+)?(DAMAGED|INOPERABLE)`)
	repairDoneRe   = regexp.MustCompile(`([A-Z][A-Z -]+?)\s+REPAIR\s+COMPLETED`)
)

// systemNames maps the device vocabulary of the game to system identifiers.
var systemNames = map[string]System{
	"WARP ENGINES":        SystemWarpEngines,
	"SHORT RANGE SENSORS": SystemShortRangeSensors,
	"LONG RANGE SENSORS":  SystemLongRangeSensors,
	"PHASER CONTROL":      SystemPhasers,
	"PHASERS":             SystemPhasers,
	"PHOTON TUBES":        SystemTorpedoTubes,
	"DAMAGE CONTROL":      SystemDamageControl,
	"SHIELD CONTROL":      SystemShieldControl,
	"LIBRARY-COMPUTER":    SystemComputer,
	"LIBRARY COMPUTER":    SystemComputer,
}

// winBanners and lossBanners classify game-over polarity.
var winBanners = []string{
	"MISSION ACCOMPLISHED",
	"LAST KLINGON BATTLE CRUISER",
}

var lossBanners = []string{
	"YOU HAVE BEEN KILLED",
	"YOU HAVE BEEN DESTROYED",
	"THE ENTERPRISE HAS BEEN DESTROYED",
	"FEDERATION DESTROYED",
	"FEDERATION WILL BE CONQUERED",
	"TIME HAS RUN OUT",
	"MISSION FAILED",
	"GAME OVER",
}

// ParseLine classifies one completed line. The returned events are in the
// order they should be applied. A non-nil error always wraps
// ErrMalformedState and may accompany successfully decomposed events from
// the same line.
func (p *Parser) ParseLine(line string) ([]ParseEvent, error) {
	var events []ParseEvent
	upper := strings.ToUpper(line)

	// Victory and defeat banners win over every other classification.
	if banner, won, ok := matchBanner(upper); ok {
		p.remember(line)
		return []ParseEvent{GameOver{Banner: banner, Won: won}}, nil
	}

	// Long range scans and the computer's galaxy record frame their
	// quadrant tables with the same dashed rule as the short range grid.
	// While one is printing, frames and rows are chatter and must not
	// start scan mode; the table ends at the next prompt.
	if p.chartActive {
		if !isPrompt(upper) {
			p.remember(line)
			return []ParseEvent{Message{Text: line}}, nil
		}
		p.chartActive = false
	}
	if chartHeaderRe.MatchString(upper) {
		p.chartActive = true
	}

	// Short range scan grid, bounded by dashed separator lines.
	if isScanSeparator(upper) {
		if p.scanActive {
			events = append(events, p.flushScan())
		} else {
			p.scanActive = true
			p.scanRow = 0
			p.scanThreats = nil
			p.scanStarbase = false
			p.scanSector = nil
		}
		p.remember(line)
		return events, nil
	}
	if p.scanActive {
		p.consumeScanRow(upper)
	}

	if p.inDamageReport {
		if ev, ok := p.consumeDamageRow(upper); ok {
			p.remember(line)
			if ev != nil {
				return append(events, *ev), nil
			}
			return events, nil
		}
		p.inDamageReport = false
	}
	if strings.Contains(upper, "DAMAGE CONTROL REPORT") {
		p.inDamageReport = true
		p.remember(line)
		return events, nil
	}

	block, matched, err := p.decomposeStatus(upper)
	if matched {
		events = append(events, block)
	}

	if isPrompt(upper) {
		if p.scanActive {
			// A prompt means the grid ended without its closing
			// separator; publish what was gathered.
			events = append(events, p.flushScan())
		}
		kind := classifyPrompt(upper, p.recent)
		events = append(events, PromptDetected{Prompt: Prompt{Raw: strings.TrimSpace(line), Kind: kind}})
	}

	if len(events) == 0 && err == nil {
		events = append(events, Message{Text: line})
	}
	p.remember(line)
	return events, err
}

// Flush publishes any partially accumulated scan, for use when the stream
// ends mid-block.
func (p *Parser) Flush() []ParseEvent {
	if !p.scanActive {
		return nil
	}
	return []ParseEvent{p.flushScan()}
}

func (p *Parser) remember(line string) {
	p.recent = append(p.recent, strings.ToUpper(strings.TrimSpace(line)))
	if len(p.recent) > 8 {
		p.recent = p.recent[len(p.recent)-8:]
	}
}

func matchBanner(upper string) (banner string, won, ok bool) {
	for _, b := range winBanners {
		if strings.Contains(upper, b) {
			return b, true, true
		}
	}
	for _, b := range lossBanners {
		if strings.Contains(upper, b) {
			return b, false, true
		}
	}
	return "", false, false
}

// isScanSeparator recognizes the dashed rule above and below the short
// range sensor grid. The exact dash count varies between interpreters.
func isScanSeparator(upper string) bool {
	trimmed := strings.TrimSpace(upper)
	if len(trimmed) < 8 {
		return false
	}
	return strings.Trim(trimmed, "-= ") == ""
}

// consumeScanRow decodes one grid row into threats, starbase sightings and
// the ship's own sector. Cells are three characters wide and only the first
// eight cells belong to the grid; interpreters print the status block to
// the right of it.
func (p *Parser) consumeScanRow(upper string) {
	p.scanRow++
	if p.scanRow > GridSize {
		return
	}
	row := upper
	if len(row) > 3*GridSize {
		row = row[:3*GridSize]
	}
	for len(row)%3 != 0 {
		row += " "
	}
	for col := 0; col*3 < len(row); col++ {
		cell := row[col*3 : col*3+3]
		pos := Coordinate{Row: p.scanRow, Col: col + 1}
		switch cell {
		case "+K+":
			p.scanThreats = append(p.scanThreats, Threat{Sector: pos, Strength: defaultThreatStrength})
		case ">!<":
			p.scanStarbase = true
		case "<*>":
			sector := pos
			p.scanSector = &sector
		}
	}
}

func (p *Parser) flushScan() ParseEvent {
	block := StatusBlock{
		Threats:        p.scanThreats,
		ThreatsScanned: true,
		StarbaseSeen:   p.scanStarbase,
		Sector:         p.scanSector,
	}
	p.scanActive = false
	p.scanRow = 0
	p.scanThreats = nil
	p.scanStarbase = false
	p.scanSector = nil
	return block
}

// consumeDamageRow handles one row of the damage control report. It
// returns ok=false when the line no longer belongs to the report.
func (p *Parser) consumeDamageRow(upper string) (*StatusBlock, bool) {
	trimmed := strings.TrimSpace(upper)
	if trimmed == "" || strings.Contains(trimmed, "STATE OF REPAIR") || trimmed == "DEVICE" {
		return nil, true
	}
	m := damageRowRe.FindStringSubmatch(upper)
	if m == nil {
		return nil, false
	}
	sys, known := systemNames[strings.TrimSpace(m[1])]
	if !known {
		return nil, true
	}
	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, true
	}
	block := &StatusBlock{}
	if value < 0 {
		block.Damage = map[System]int{sys: int(math.Ceil(-value))}
	} else {
		block.Repaired = []System{sys}
	}
	return block, true
}

// decomposeStatus extracts every recognized status field present on the
// line. matched reports whether anything was extracted; err is set when the
// line claims a status field but carries no usable number.
func (p *Parser) decomposeStatus(upper string) (StatusBlock, bool, error) {
	block := StatusBlock{Resources: make(map[Resource]int)}
	matched := false

	capture := func(r Resource, value int) {
		if value < 0 {
			value = 0
			block.Anomalies++
		}
		block.Resources[r] = value
		matched = true
	}

	if m := shieldsNowRe.FindStringSubmatch(upper); m != nil {
		capture(ResourceShields, atoi(m[1]))
	} else if m := shieldsRe.FindStringSubmatch(upper); m != nil && !strings.Contains(upper, "UNITS TO SHIELDS") {
		capture(ResourceShields, atoi(m[1]))
	}
	if m := energyRe.FindStringSubmatch(upper); m != nil && !strings.Contains(upper, "ENERGY AVAILABLE") {
		capture(ResourceEnergy, atoi(m[1]))
	}
	if m := torpedoesRe.FindStringSubmatch(upper); m != nil {
		capture(ResourceTorpedoes, atoi(m[1]))
	}
	if m := lifeSupportRe.FindStringSubmatch(upper); m != nil {
		capture(ResourceLifeSupport, atoi(m[1]))
	}
	if m := klingonsRe.FindStringSubmatch(upper); m != nil {
		n := atoi(m[1])
		block.Klingons = &n
		matched = true
	}
	if m := timeLeftRe.FindStringSubmatch(upper); m != nil {
		n := atoi(m[1])
		block.TimeRemaining = &n
		matched = true
	}
	if m := stardateRe.FindStringSubmatch(upper); m != nil {
		n := atoi(m[1])
		block.Stardate = &n
		matched = true
	}
	if m := starbasesRe.FindStringSubmatch(upper); m != nil {
		n := atoi(m[1])
		block.Starbases = &n
		matched = true
	}
	if m := quadrantRe.FindStringSubmatch(upper); m != nil {
		c := Coordinate{Row: atoi(m[1]), Col: atoi(m[2])}
		block.Quadrant = &c
		matched = true
	}
	if m := sectorRe.FindStringSubmatch(upper); m != nil {
		c := Coordinate{Row: atoi(m[1]), Col: atoi(m[2])}
		block.Sector = &c
		matched = true
	}
	if m := conditionRe.FindStringSubmatch(upper); m != nil {
		block.Condition = Condition(m[1])
		matched = true
	}
	if m := quadNameRe.FindStringSubmatch(upper); m != nil {
		block.QuadrantName = strings.TrimSpace(m[1])
		matched = true
	}
	if m := damageNoticeRe.FindStringSubmatch(upper); m != nil {
		if sys, known := systemNames[strings.TrimSpace(m[1])]; known {
			block.Damage = map[System]int{sys: 1}
			matched = true
		}
	}
	if m := repairDoneRe.FindStringSubmatch(upper); m != nil {
		if sys, known := systemNames[strings.TrimSpace(m[1])]; known {
			block.Repaired = append(block.Repaired, sys)
			matched = true
		}
	}

	if !matched && statusLabelRe.MatchString(upper) && !anyNumberRe.MatchString(upper) {
		return block, false, fmt.Errorf("%w: %q", ErrMalformedState, strings.TrimSpace(upper))
	}
	return block, matched, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
