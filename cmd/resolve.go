package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resolveProject string
	resolveJSON    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <server-id>",
	Short: "Resolve a context server identifier to its launch command",
	Long: `Resolves a server identifier against the builtin registry and the
project's .ctxhost/servers.yaml, and prints the resulting launch
descriptor without starting anything.

Exits non-zero with "Unknown server: <id>" when the identifier is not
recognized.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveProject, "project", "", "Project root to resolve against (default: current directory)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the launch descriptor as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	project, err := projectFromFlag(resolveProject)
	if err != nil {
		return err
	}

	spec, err := hostResolver().Resolve(args[0], project)
	if err != nil {
		return err
	}

	if resolveJSON {
		out, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("command: %s\n", spec.Command)
	fmt.Printf("args:    %s\n", strings.Join(spec.Args, " "))
	if len(spec.Env) == 0 {
		fmt.Println("env:     (inherited)")
	} else {
		keys := make([]string, 0, len(spec.Env))
		for k := range spec.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("env:")
		for _, k := range keys {
			fmt.Printf("  %s=%s\n", k, spec.Env[k])
		}
	}
	return nil
}
