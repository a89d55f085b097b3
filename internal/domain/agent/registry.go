package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const defaultVersion = "1.0.0"

// ErrNoAgents is returned when a directory holds no agent definitions.
var ErrNoAgents = errors.New("no agent definitions found")

// Registry is the immutable set of agents known to the process. It is built
// once during startup and shared by reference.
type Registry struct {
	agents map[string]Definition
	order  []string
}

// NewRegistry validates the definitions and indexes them by id.
func NewRegistry(definitions ...Definition) (*Registry, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	r := &Registry{agents: make(map[string]Definition, len(definitions))}

	for _, def := range definitions {
		def.ID = strings.TrimSpace(def.ID)
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("agent %q: %w", def.ID, err)
		}
		if _, exists := r.agents[def.ID]; exists {
			return nil, fmt.Errorf("agent %q defined more than once", def.ID)
		}
		if err := checkMemoryLabels(def); err != nil {
			return nil, err
		}
		if def.Version == "" {
			def.Version = defaultVersion
		}
		r.agents[def.ID] = def.clone()
		r.order = append(r.order, def.ID)
	}
	sort.Strings(r.order)
	return r, nil
}

// LoadDir reads every .json, .yaml and .yml file in dir as one agent definition.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read agents dir: %w", err)
	}

	var definitions []Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		def, err := loadFile(path, ext)
		if err != nil {
			return nil, err
		}
		if def.CreatedAt.IsZero() {
			if info, err := entry.Info(); err == nil {
				def.CreatedAt = info.ModTime().UTC()
			}
		}
		definitions = append(definitions, def)
	}

	if len(definitions) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAgents, dir)
	}
	return NewRegistry(definitions...)
}

func loadFile(path, ext string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read agent file %s: %w", path, err)
	}

	var def Definition
	if ext == ".json" {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("decode agent file %s: %w", path, err)
	}
	return def, nil
}

func checkMemoryLabels(def Definition) error {
	seen := make(map[string]bool, len(def.MemoryBlocks))
	for _, block := range def.MemoryBlocks {
		if seen[block.Label] {
			return fmt.Errorf("agent %q: memory block %q declared twice", def.ID, block.Label)
		}
		seen[block.Label] = true
	}
	return nil
}

// Get returns a copy of the agent with the given id.
func (r *Registry) Get(id string) (Definition, bool) {
	def, ok := r.agents[id]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// List returns copies of every agent ordered by id.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id].clone())
	}
	return out
}

// Len returns the number of loaded agents.
func (r *Registry) Len() int {
	return len(r.order)
}
