package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calibremcp/ctxhost/internal/launcher"
	"github.com/calibremcp/ctxhost/internal/logger"
)

var runProject string

var runCmd = &cobra.Command{
	Use:   "run <server-id>",
	Short: "Resolve a context server and run it in the foreground",
	Long: `Resolves the identifier and starts the server with stdio attached to
this process, so a host speaking MCP over stdin/stdout can exec
"ctxhost run <id>" directly. SIGINT and SIGTERM stop the server.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runProject, "project", "", "Project root to resolve against (default: current directory)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	serverID := args[0]

	project, err := projectFromFlag(runProject)
	if err != nil {
		return err
	}

	spec, err := hostResolver().Resolve(serverID, project)
	if err != nil {
		return err
	}

	if logPath, err := logger.LaunchLogPath(serverID); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get launch log path: %v\n", err)
	} else if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := launcher.New(serverID, spec,
		launcher.WithStdio(os.Stdin, os.Stdout, os.Stderr),
		launcher.WithDir(project.Root))
	// Started with a background context so a signal triggers the graceful
	// SIGTERM path below rather than an immediate kill.
	if err := l.Start(context.Background()); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		l.Stop()
	}()

	return l.Wait()
}
