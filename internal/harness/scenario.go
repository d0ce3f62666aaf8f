// Package harness runs declarative conformance scenarios against the
// reconciliation engine.
//
// Scenarios are YAML files describing a sequence of mutations and
// connectivity changes, with expectations checked along the way and an
// optional golden snapshot of the final state. They exist to keep the
// engine's offline-first guarantees pinned down in a form that reads like
// the behavior they protect.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description,omitempty"`

	// Steps run in order against a fresh engine, which starts offline
	// with empty local and remote stores.
	Steps []Step `yaml:"steps"`
}

// Step is one action in a scenario. Exactly one field should be set.
type Step struct {
	// Add creates an item.
	Add *AddStep `yaml:"add,omitempty"`

	// Update edits the item with the given name.
	Update *UpdateStep `yaml:"update,omitempty"`

	// Toggle flips the completed state of the named item.
	Toggle string `yaml:"toggle,omitempty"`

	// Remove deletes the named item.
	Remove string `yaml:"remove,omitempty"`

	// Online signals a connectivity change to the engine.
	Online *bool `yaml:"online,omitempty"`

	// FailRemote makes the fake remote reject operations for these
	// names (creates) or ids (updates/deletes) until healed.
	FailRemote []string `yaml:"fail_remote,omitempty"`

	// HealRemote clears earlier FailRemote entries.
	HealRemote []string `yaml:"heal_remote,omitempty"`

	// Expect checks engine state after the step's work has drained.
	Expect *Expect `yaml:"expect,omitempty"`
}

// AddStep creates an item.
type AddStep struct {
	Name  string  `yaml:"name"`
	Qty   int     `yaml:"qty"`
	Price float64 `yaml:"price"`
}

// UpdateStep edits the item currently named Name. Zero-valued fields keep
// the current value.
type UpdateStep struct {
	Name     string   `yaml:"name"`
	NewName  string   `yaml:"new_name,omitempty"`
	Qty      *int     `yaml:"qty,omitempty"`
	Price    *float64 `yaml:"price,omitempty"`
}

// Expect asserts on engine and remote state.
type Expect struct {
	// Items is the expected in-memory collection size.
	Items *int `yaml:"items,omitempty"`

	// Pending is the expected pending queue size.
	Pending *int `yaml:"pending,omitempty"`

	// Unsynced is the expected number of items still carrying a
	// local-space id.
	Unsynced *int `yaml:"unsynced,omitempty"`

	// PendingTotal is the expected aggregate over uncompleted items.
	PendingTotal *float64 `yaml:"pending_total,omitempty"`

	// RemoteDocs is the expected remote document count.
	RemoteDocs *int `yaml:"remote_docs,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: at least one step is required", path)
	}
	return &sc, nil
}
