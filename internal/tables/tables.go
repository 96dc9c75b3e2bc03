package tables

import (
	"fmt"

	"github.com/tradepulse/arcade/internal/domain"
)

// Entry is one weighted reward in a table. Order matters: entries earlier in
// declaration order win ties at cumulative weight boundaries.
type Entry struct {
	Code   string `json:"code"`
	Weight uint64 `json:"weight"`
	Rarity string `json:"rarity,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Table is an ordered weighted-reward table for one module.
type Table struct {
	entries []Entry
	total   uint64
}

// New builds a table from entries, validating weights and codes.
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyTable
	}

	seen := make(map[string]bool, len(entries))
	var total uint64
	for i, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("%w: entry %d has empty code", domain.ErrInvalidInput, i)
		}
		if e.Weight == 0 {
			return nil, fmt.Errorf("%w: entry %q has zero weight", domain.ErrInvalidInput, e.Code)
		}
		if seen[e.Code] {
			return nil, fmt.Errorf("%w: duplicate code %q", domain.ErrInvalidInput, e.Code)
		}
		seen[e.Code] = true
		total += e.Weight
	}

	return &Table{entries: append([]Entry(nil), entries...), total: total}, nil
}

// TotalWeight is recorded in the audit as "total" so a verifier can
// recompute roll = draw mod total and confirm the selected entry.
func (t *Table) TotalWeight() uint64 {
	return t.total
}

// Entries returns the table contents in declaration order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Pick walks the cumulative weight prefix sums in table order and returns
// the first entry whose cumulative sum exceeds roll. roll must be in
// [0, TotalWeight).
func (t *Table) Pick(roll uint64) Entry {
	var cum uint64
	for _, e := range t.entries {
		cum += e.Weight
		if roll < cum {
			return e
		}
	}
	// roll out of range; the last entry absorbs it rather than panicking
	return t.entries[len(t.entries)-1]
}

// AboveFloor returns the sub-table of entries whose rarity ranks strictly
// above floor, preserving declaration order. Used for pity-forced draws.
// Returns an error when nothing in the table clears the floor.
func (t *Table) AboveFloor(floor string) (*Table, error) {
	floorRank := RarityRank(floor)
	var subset []Entry
	for _, e := range t.entries {
		if RarityRank(e.Rarity) > floorRank {
			subset = append(subset, e)
		}
	}
	if len(subset) == 0 {
		return nil, fmt.Errorf("%w: no entries above floor %q", domain.ErrEmptyTable, floor)
	}
	return New(subset)
}
