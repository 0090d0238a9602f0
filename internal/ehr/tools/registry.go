// Package tools defines the gateway's tool catalogue: the typed argument
// structs, published JSON schemas and handlers behind tools/list and
// tools/call. The dispatcher owns authentication and authorization; by the
// time a handler runs those checks have already passed.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/curalinkhq/curalink/pkg/ehrsdk"
)

// HandlerFunc executes one tool invocation. The arguments arrive with the
// access token already removed. The returned value is serialized into the
// result's text content block.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool pairs a catalogue descriptor with its handler. RequiresToken is
// false only for the public authentication tools.
type Tool struct {
	Descriptor    ehrsdk.Tool
	RequiresToken bool
	Handler       HandlerFunc
}

// Registry is the tool catalogue. It is built once at startup and never
// mutated afterwards, so lookups need no locking.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Registering the same
// name twice is a programming error and panics.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Descriptor.Name == "" {
			panic("tools: tool with empty name")
		}
		if _, dup := r.tools[t.Descriptor.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", t.Descriptor.Name))
		}
		r.tools[t.Descriptor.Name] = t
		r.order = append(r.order, t.Descriptor.Name)
	}
	return r
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the catalogue descriptors in registration order. The slice
// is freshly allocated so callers cannot mutate the registry through it,
// and the listing is identical whether or not the caller holds a token.
func (r *Registry) List() []ehrsdk.Tool {
	out := make([]ehrsdk.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor)
	}
	return out
}

// failf builds a caller-facing failure the dispatcher reports inside the
// tool result envelope. The text is shown to end users, so it reads as a
// sentence rather than a Go error string.
func failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
