package interpreter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Family identifies which interpreter implementation runs the game
// program. All three speak the same text protocol; they differ in how they
// are invoked and in whether they can record statement coverage.
type Family string

const (
	FamilyBasicRS   Family = "basic-rs"
	FamilyTrekBasic Family = "trek-basic"
	FamilyJava      Family = "trek-basic-j"
)

// ParseFamily validates a family name from configuration.
func ParseFamily(name string) (Family, error) {
	switch Family(strings.ToLower(name)) {
	case FamilyBasicRS:
		return FamilyBasicRS, nil
	case FamilyTrekBasic:
		return FamilyTrekBasic, nil
	case FamilyJava:
		return FamilyJava, nil
	}
	return "", fmt.Errorf("unknown interpreter family %q", name)
}

// SupportsCoverage reports whether the family can write a statement
// coverage file. Only the native interpreter exposes the flags.
func (f Family) SupportsCoverage() bool {
	return f == FamilyBasicRS
}

// Launcher builds the argv for an interpreter run and spawns transports.
type Launcher struct {
	// Family selects the interpreter implementation.
	Family Family

	// InterpreterPath is the interpreter binary, script or jar. Empty
	// picks the family default from PATH.
	InterpreterPath string

	// ProgramPath is the game program source handed to the interpreter.
	ProgramPath string

	// CoverageFile, when set on a family that supports it, asks the
	// interpreter to record statement coverage there. Each run starts
	// from a clean slate; merging across runs happens outside the
	// interpreter.
	CoverageFile string
}

// Validate checks the launcher against the filesystem before any spawn.
// A missing program is a configuration error, not a per-game fault.
func (l *Launcher) Validate() error {
	if l.ProgramPath == "" {
		return fmt.Errorf("%w: no game program configured", ErrSpawn)
	}
	if _, err := os.Stat(l.ProgramPath); err != nil {
		return fmt.Errorf("%w: game program %s: %v", ErrSpawn, l.ProgramPath, err)
	}
	if _, err := ParseFamily(string(l.Family)); err != nil {
		return fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	if l.CoverageFile != "" && !l.Family.SupportsCoverage() {
		return fmt.Errorf("%w: family %s cannot record coverage", ErrSpawn, l.Family)
	}
	return nil
}

// Argv returns the full command line for one interpreter run.
func (l *Launcher) Argv() []string {
	switch l.Family {
	case FamilyTrekBasic:
		path := l.InterpreterPath
		if path == "" {
			path = "trekbasic"
		}
		return []string{"python3", path, l.ProgramPath}
	case FamilyJava:
		path := l.InterpreterPath
		if path == "" {
			path = "trekbasicj.jar"
		}
		return []string{"java", "-jar", path, l.ProgramPath}
	default:
		path := l.InterpreterPath
		if path == "" {
			path = "basic-rs"
		}
		argv := []string{path}
		if l.CoverageFile != "" {
			argv = append(argv, "--coverage-file", l.CoverageFile, "--reset-coverage")
		}
		return append(argv, l.ProgramPath)
	}
}

// Launch validates the configuration and spawns one interpreter process in
// the program's directory, so relative file references inside the game
// program resolve.
func (l *Launcher) Launch() (*Transport, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return Spawn(l.Argv(), filepath.Dir(l.ProgramPath))
}
