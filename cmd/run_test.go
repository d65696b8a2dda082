package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestRunCmdRegisteredOnRoot(t *testing.T) {
	found := false
	for _, sub := range rootCmd.Commands() {
		if sub.Use == "run <server-id>" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected 'run' subcommand to be registered on rootCmd")
	}
}

func TestRunCmdProjectFlagExists(t *testing.T) {
	if runCmd.Flags().Lookup("project") == nil {
		t.Error("expected --project flag on run command")
	}
}

func TestRunRunUnknownServer(t *testing.T) {
	origProject := runProject
	defer func() { runProject = origProject }()
	runProject = t.TempDir()

	err := runRun(&cobra.Command{}, []string{"unknown-server"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "Unknown server: unknown-server"; got != want {
		t.Errorf("message: got %q, want %q", got, want)
	}
}

// A manifest server that exits immediately runs to completion through the
// full resolve-and-launch path.
func TestRunRunManifestServer(t *testing.T) {
	origProject := runProject
	defer func() { runProject = origProject }()
	t.Setenv("HOME", t.TempDir()) // keep launch logs out of the real home dir

	root := t.TempDir()
	dir := filepath.Join(root, ".ctxhost")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := "servers:\n  true-mcp:\n    command: \"true\"\n"
	if err := os.WriteFile(filepath.Join(dir, "servers.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	runProject = root

	if err := runRun(&cobra.Command{}, []string{"true-mcp"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
