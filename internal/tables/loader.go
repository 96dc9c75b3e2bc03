package tables

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tradepulse/arcade/internal/domain"
)

// Registry holds the outcome table for each module.
type Registry struct {
	tables map[domain.Module]*Table
}

// NewRegistry builds a registry from raw per-module entry lists.
func NewRegistry(raw map[domain.Module][]Entry) (*Registry, error) {
	reg := &Registry{tables: make(map[domain.Module]*Table, len(raw))}
	for module, entries := range raw {
		if !module.Valid() {
			return nil, fmt.Errorf("%w: unknown module %q", domain.ErrInvalidInput, module)
		}
		table, err := New(entries)
		if err != nil {
			return nil, fmt.Errorf("table for module %s: %w", module, err)
		}
		reg.tables[module] = table
	}
	return reg, nil
}

// LoadRegistry reads per-module tables from a JSON file. Tuning weights are
// configuration data, not engine invariants, so operators edit the file
// rather than the code.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outcome tables file: %w", err)
	}

	var raw map[domain.Module][]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse outcome tables: %w", err)
	}

	return NewRegistry(raw)
}

// Get returns the table for a module.
func (r *Registry) Get(module domain.Module) (*Table, error) {
	table, ok := r.tables[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, module)
	}
	return table, nil
}

// Modules lists the modules with a registered table.
func (r *Registry) Modules() []domain.Module {
	mods := make([]domain.Module, 0, len(r.tables))
	for _, m := range domain.AllModules {
		if _, ok := r.tables[m]; ok {
			mods = append(mods, m)
		}
	}
	return mods
}
