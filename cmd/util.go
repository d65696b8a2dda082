package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/calibremcp/ctxhost/internal/resolver"
)

// lookPathFunc is the function used to look up binaries on PATH.
// Overridden in tests to control behavior.
var lookPathFunc = exec.LookPath

// projectFromFlag returns the project handle for a --project flag value,
// defaulting to the current working directory.
func projectFromFlag(path string) (resolver.Project, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return resolver.Project{}, fmt.Errorf("determine working directory: %w", err)
		}
		path = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return resolver.Project{}, fmt.Errorf("resolve project path %q: %w", path, err)
	}
	return resolver.Project{Root: abs}, nil
}

// hostResolver returns the resolver chain the CLI consults: builtin
// identifiers first, then the project's server manifest. Builtin entries
// always win, so a manifest cannot shadow calibre-mcp.
func hostResolver() resolver.Resolver {
	return resolver.Chain{resolver.Builtin(), resolver.ManifestResolver{}}
}
