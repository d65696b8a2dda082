package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ManifestPath is the per-project server manifest, relative to the project
// root. Projects can declare additional context servers here without any
// change to the builtin registry:
//
//	servers:
//	  my-notes-mcp:
//	    command: npx
//	    args: ["-y", "my-notes-mcp"]
//	    env:
//	      NOTES_DIR: ./notes
const ManifestPath = ".ctxhost/servers.yaml"

type manifestFile struct {
	Servers map[string]manifestServer `yaml:"servers"`
}

type manifestServer struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// ManifestResolver resolves identifiers declared in a project's servers.yaml.
// A missing manifest, a project without a root, or an undeclared identifier
// all fail with *LookupError so a Chain can fall through; a manifest that
// exists but cannot be parsed is a real error and aborts resolution.
type ManifestResolver struct{}

// Resolve implements Resolver.
func (ManifestResolver) Resolve(id string, project Project) (LaunchSpec, error) {
	servers, err := loadManifest(project)
	if err != nil {
		if IsLookup(err) {
			return LaunchSpec{}, &LookupError{ID: id}
		}
		return LaunchSpec{}, err
	}
	s, ok := servers[id]
	if !ok {
		return LaunchSpec{}, &LookupError{ID: id}
	}
	if s.Command == "" {
		return LaunchSpec{}, fmt.Errorf("server %q in %s has no command", id, ManifestPath)
	}
	spec := LaunchSpec{
		Command: s.Command,
		Args:    append([]string{}, s.Args...),
		Env:     make(map[string]string, len(s.Env)),
	}
	for k, v := range s.Env {
		spec.Env[k] = v
	}
	return spec, nil
}

// Names returns the identifiers declared in the project manifest, sorted.
// Returns nil (no error) when the project has no manifest.
func (ManifestResolver) Names(project Project) ([]string, error) {
	servers, err := loadManifest(project)
	if err != nil {
		if IsLookup(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(servers))
	for id := range servers {
		names = append(names, id)
	}
	sort.Strings(names)
	return names, nil
}

func loadManifest(project Project) (map[string]manifestServer, error) {
	if project.Root == "" {
		return nil, &LookupError{}
	}
	path := filepath.Join(project.Root, filepath.FromSlash(ManifestPath))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LookupError{}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var mf manifestFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return mf.Servers, nil
}
