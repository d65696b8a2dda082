package resolver

// ServerCalibreMCP is the identifier of the calibre ebook-management context
// server, the single server the builtin registry currently recognizes.
const ServerCalibreMCP = "calibre-mcp"

// RunnerCommand is the package runner expected on the host's PATH. It must
// support "uv run <program>" to locate and execute a named installed program.
const RunnerCommand = "uv"

// Builtin returns the compiled-in registry. Resolution against it is a pure
// function of the identifier: builders ignore the project handle, and the
// same identifier always yields the same spec or the same failure.
func Builtin() *Registry {
	return NewRegistry(map[string]Builder{
		ServerCalibreMCP: func(Project) LaunchSpec {
			return LaunchSpec{
				Command: RunnerCommand,
				Args:    []string{"run", ServerCalibreMCP},
				Env:     map[string]string{},
			}
		},
	})
}
