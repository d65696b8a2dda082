package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calibremcp/ctxhost/internal/logger"
)

var (
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "ctxhost",
	Short: "Resolve and launch context servers by name",
	Long: `ctxhost maps context server identifiers to the command lines needed
to launch them, and can start the resolved server on the host's behalf.

The calibre-mcp ebook assistant is built in. Projects can register
additional servers in .ctxhost/servers.yaml at the project root.`,
	Example: `  ctxhost resolve calibre-mcp      # Print the launch command for a server
  ctxhost list                     # List recognized server identifiers
  ctxhost run calibre-mcp          # Resolve and start a server in the foreground
  ctxhost check calibre-mcp        # Verify the runner and server are launchable`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	logger.SetDebug(!quietMode)
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("ctxhost %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("ctxhost %s\n", version)
}
