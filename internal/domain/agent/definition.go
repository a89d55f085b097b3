// Package agent holds the static agent definitions loaded at startup.
package agent

import (
	"slices"
	"time"
)

// ModelPreferences are the generation defaults of an agent.
type ModelPreferences struct {
	Model       string   `json:"model,omitempty" yaml:"model"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature"`
	MaxTokens   *int     `json:"maxTokens,omitempty" yaml:"maxTokens"`
}

// MemoryBlockSeed is an initial memory block written for the agent once.
type MemoryBlockSeed struct {
	Label string `json:"label" yaml:"label" validate:"required,max=128"`
	Value string `json:"value" yaml:"value"`
}

// Definition is one agent as declared in its configuration file.
type Definition struct {
	ID               string            `json:"id" yaml:"id" validate:"required,max=64"`
	Name             string            `json:"name" yaml:"name" validate:"required"`
	Description      string            `json:"description" yaml:"description"`
	Version          string            `json:"version" yaml:"version"`
	Frameworks       []string          `json:"frameworks" yaml:"frameworks"`
	Instructions     string            `json:"instructions" yaml:"instructions" validate:"required"`
	ModelPreferences ModelPreferences  `json:"modelPreferences" yaml:"modelPreferences"`
	AllowedTools     []string          `json:"allowedTools" yaml:"allowedTools"`
	MemoryBlocks     []MemoryBlockSeed `json:"memoryBlocks" yaml:"memoryBlocks" validate:"dive"`
	CreatedAt        time.Time         `json:"createdAt" yaml:"createdAt"`
}

// Record is the read-only surface exposed over HTTP.
type Record struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Version           string           `json:"version"`
	Frameworks        []string         `json:"frameworks"`
	Instructions      string           `json:"instructions"`
	ModelPreferences  ModelPreferences `json:"modelPreferences"`
	AllowedTools      []string         `json:"allowedTools"`
	MemoryBlockLabels []string         `json:"memoryBlockLabels"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// MemoryBlockLabels lists the labels of the initial memory blocks.
func (d Definition) MemoryBlockLabels() []string {
	labels := make([]string, 0, len(d.MemoryBlocks))
	for _, block := range d.MemoryBlocks {
		labels = append(labels, block.Label)
	}
	return labels
}

// Record converts the definition into its public shape.
func (d Definition) Record() Record {
	return Record{
		ID:                d.ID,
		Name:              d.Name,
		Description:       d.Description,
		Version:           d.Version,
		Frameworks:        nonNil(d.Frameworks),
		Instructions:      d.Instructions,
		ModelPreferences:  d.ModelPreferences,
		AllowedTools:      nonNil(d.AllowedTools),
		MemoryBlockLabels: d.MemoryBlockLabels(),
		CreatedAt:         d.CreatedAt,
	}
}

// HasTools reports whether the agent declares any permitted tools.
func (d Definition) HasTools() bool {
	return len(d.AllowedTools) > 0
}

func (d Definition) clone() Definition {
	out := d
	out.Frameworks = slices.Clone(d.Frameworks)
	out.AllowedTools = slices.Clone(d.AllowedTools)
	out.MemoryBlocks = slices.Clone(d.MemoryBlocks)
	if d.ModelPreferences.Temperature != nil {
		temperature := *d.ModelPreferences.Temperature
		out.ModelPreferences.Temperature = &temperature
	}
	if d.ModelPreferences.MaxTokens != nil {
		maxTokens := *d.ModelPreferences.MaxTokens
		out.ModelPreferences.MaxTokens = &maxTokens
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}
