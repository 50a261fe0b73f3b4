package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CoverageMerger accumulates statement coverage across interpreter runs.
// Each run writes its own per-game coverage file, which the merger folds
// into a union map keyed by statement identifier with summed hit counts.
type CoverageMerger struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewCoverageMerger returns an empty merger.
func NewCoverageMerger() *CoverageMerger {
	return &CoverageMerger{counts: make(map[string]int64)}
}

// MergeFile folds one interpreter-written coverage file into the union.
// The file is a flat JSON object of statement id to hit count.
func (m *CoverageMerger) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read coverage file %s: %w", path, err)
	}

	var counts map[string]int64
	if err := json.Unmarshal(data, &counts); err != nil {
		return fmt.Errorf("decode coverage file %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range counts {
		m.counts[id] += n
	}
	return nil
}

// Statements returns how many distinct statements were ever executed.
func (m *CoverageMerger) Statements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counts)
}

// Counts returns a copy of the merged hit counts.
func (m *CoverageMerger) Counts() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counts))
	for id, n := range m.counts {
		out[id] = n
	}
	return out
}

// WriteFile persists the merged union. The write goes through a temp file
// in the same directory plus a rename, so a crash mid-write never leaves a
// torn coverage file behind.
func (m *CoverageMerger) WriteFile(path string) error {
	m.mu.Lock()
	data, err := json.MarshalIndent(m.counts, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode coverage: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".coverage-*.json")
	if err != nil {
		return fmt.Errorf("write coverage file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write coverage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write coverage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write coverage file: %w", err)
	}
	return nil
}
