package tool

import (
	"fmt"
	"sort"
	"strings"

	"github.com/janhq/jan-agent-gateway/internal/domain/llm"
)

type binding struct {
	executor   Executor
	descriptor Descriptor
}

// Registry is the immutable set of executors known to the process.
type Registry struct {
	services  map[string]Executor
	functions map[string]binding
	order     []string
}

// NewRegistry indexes the given executors. Function names must be unique
// across executors.
func NewRegistry(executors ...Executor) (*Registry, error) {
	r := &Registry{
		services:  make(map[string]Executor),
		functions: make(map[string]binding),
	}
	for _, executor := range executors {
		if executor == nil {
			continue
		}
		service := executor.Service()
		if _, exists := r.services[service]; exists {
			return nil, fmt.Errorf("executor for service %q registered twice", service)
		}
		r.services[service] = executor
		for _, descriptor := range executor.Descriptors() {
			if _, exists := r.functions[descriptor.Name]; exists {
				return nil, fmt.Errorf("function %q registered twice", descriptor.Name)
			}
			r.functions[descriptor.Name] = binding{executor: executor, descriptor: descriptor}
			r.order = append(r.order, descriptor.Name)
		}
	}
	return r, nil
}

// Services lists the registered service names in sorted order.
func (r *Registry) Services() []string {
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Toolbox resolves an agent's permitted tool list. Each entry is either a
// service name, granting all of its functions, or a single function name.
// Entries matching neither are returned as unresolved.
func (r *Registry) Toolbox(allowed []string) (*Toolbox, []string) {
	selected := make(map[string]bool)
	var unresolved []string
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if executor, ok := r.services[entry]; ok {
			for _, d := range executor.Descriptors() {
				selected[d.Name] = true
			}
			continue
		}
		if _, ok := r.functions[entry]; ok {
			selected[entry] = true
			continue
		}
		unresolved = append(unresolved, entry)
	}

	box := &Toolbox{bindings: make(map[string]binding, len(selected))}
	for _, name := range r.order {
		if selected[name] {
			box.bindings[name] = r.functions[name]
			box.order = append(box.order, name)
		}
	}
	return box, unresolved
}

// Toolbox is the function catalog available to one agent.
type Toolbox struct {
	bindings map[string]binding
	order    []string
}

// Empty reports whether the toolbox exposes no functions. A nil toolbox is empty.
func (t *Toolbox) Empty() bool {
	return t == nil || len(t.order) == 0
}

// Descriptors returns the catalog in registration order.
func (t *Toolbox) Descriptors() []Descriptor {
	if t == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.bindings[name].descriptor)
	}
	return out
}

// Definitions returns the catalog in the runtime tool format.
func (t *Toolbox) Definitions() []llm.ToolDefinition {
	descriptors := t.Descriptors()
	out := make([]llm.ToolDefinition, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d.Definition())
	}
	return out
}

func (t *Toolbox) lookup(name string) (binding, bool) {
	if t == nil {
		return binding{}, false
	}
	b, ok := t.bindings[name]
	return b, ok
}
