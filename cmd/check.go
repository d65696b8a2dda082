package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/calibremcp/ctxhost/internal/probe"
	"github.com/calibremcp/ctxhost/internal/resolver"
)

var (
	checkProject string
	checkProbe   bool
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check [server-id]",
	Short: "Verify the runner and a context server are launchable",
	Long: `Checks that the package runner (uv) is on PATH. With a server
identifier, also resolves it and checks its executable; --probe
additionally starts the server and performs an MCP initialize
round-trip over stdio to confirm it responds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkProject, "project", "", "Project root to resolve against (default: current directory)")
	checkCmd.Flags().BoolVar(&checkProbe, "probe", false, "Start the server and perform an initialize round-trip")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "Probe timeout")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	runnerPath, err := lookPathFunc(resolver.RunnerCommand)
	if err != nil {
		return fmt.Errorf("runner %q not found on PATH\n\nInstall uv: https://docs.astral.sh/uv/getting-started/installation/", resolver.RunnerCommand)
	}
	fmt.Printf("runner %q found at %s\n", resolver.RunnerCommand, runnerPath)

	if len(args) == 0 {
		return nil
	}
	serverID := args[0]

	project, err := projectFromFlag(checkProject)
	if err != nil {
		return err
	}

	spec, err := hostResolver().Resolve(serverID, project)
	if err != nil {
		return err
	}

	cmdPath, err := lookPathFunc(spec.Command)
	if err != nil {
		return fmt.Errorf("server %q resolves to %q, which is not on PATH", serverID, spec.Command)
	}
	fmt.Printf("server %q launches via %s\n", serverID, cmdPath)

	if !checkProbe {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	result, err := probe.Initialize(ctx, serverID, spec)
	if err != nil {
		return err
	}
	fmt.Printf("probe ok: %s %s (protocol %s)\n", result.ServerName, result.ServerVersion, result.ProtocolVersion)
	return nil
}
