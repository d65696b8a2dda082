// Package resolver maps context server identifiers to the concrete command
// lines used to launch them.
//
// A host asks for a server by name ("calibre-mcp") and gets back a LaunchSpec
// describing the executable, arguments, and environment overrides needed to
// start it. The resolver never spawns anything itself; process lifecycle
// belongs to the caller (see internal/launcher).
package resolver

import "sort"

// LaunchSpec describes how to start a context server process without
// starting it: the executable name, its arguments in order, and environment
// variable overrides applied on top of the host environment.
type LaunchSpec struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
}

// Project is an opaque handle to the workspace a resolution request is made
// for. Builtin resolution does not inspect it; it is carried through so that
// project-scoped resolvers (see ManifestResolver) can vary by workspace.
type Project struct {
	Root string
}

// Resolver produces a launch descriptor for a named context server, or an
// error when the identifier is not recognized.
type Resolver interface {
	Resolve(id string, project Project) (LaunchSpec, error)
}

// Builder constructs the launch spec for one registered identifier.
type Builder func(project Project) LaunchSpec

// Registry maps server identifiers to launch spec builders. Identifiers are
// matched by exact string equality, case-sensitive. A Registry is immutable
// after construction and safe for concurrent Resolve calls.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates a registry from the given identifier → builder map.
// The map is copied; later mutation of the argument has no effect.
func NewRegistry(builders map[string]Builder) *Registry {
	m := make(map[string]Builder, len(builders))
	for id, b := range builders {
		m[id] = b
	}
	return &Registry{builders: m}
}

// Resolve looks up id and constructs a fresh LaunchSpec for it. The project
// handle is passed through to the matched builder untouched. Unrecognized
// identifiers fail with a *LookupError carrying the identifier verbatim.
func (r *Registry) Resolve(id string, project Project) (LaunchSpec, error) {
	b, ok := r.builders[id]
	if !ok {
		return LaunchSpec{}, &LookupError{ID: id}
	}
	return b(project), nil
}

// Names returns the registered identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for id := range r.builders {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// Chain consults resolvers in order and returns the first match. A resolver
// that fails with *LookupError passes the identifier to the next one; any
// other error aborts the chain. An exhausted chain fails with *LookupError.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(id string, project Project) (LaunchSpec, error) {
	for _, r := range c {
		spec, err := r.Resolve(id, project)
		if err == nil {
			return spec, nil
		}
		if !IsLookup(err) {
			return LaunchSpec{}, err
		}
	}
	return LaunchSpec{}, &LookupError{ID: id}
}
