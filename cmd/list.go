package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calibremcp/ctxhost/internal/resolver"
)

var listProject string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recognized context server identifiers",
	Long: `Lists every server identifier the host can resolve: the builtin
registry plus any servers declared in the project's .ctxhost/servers.yaml.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listProject, "project", "", "Project root to list servers for (default: current directory)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	project, err := projectFromFlag(listProject)
	if err != nil {
		return err
	}

	builtin := resolver.Builtin()
	manifestNames, err := resolver.ManifestResolver{}.Names(project)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tCOMMAND")
	for _, id := range builtin.Names() {
		spec, err := builtin.Resolve(id, project)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\tbuiltin\t%s %s\n", id, spec.Command, strings.Join(spec.Args, " "))
	}
	mr := resolver.ManifestResolver{}
	for _, id := range manifestNames {
		spec, err := mr.Resolve(id, project)
		if err != nil {
			fmt.Fprintf(tw, "%s\tproject\t(invalid: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(tw, "%s\tproject\t%s %s\n", id, spec.Command, strings.Join(spec.Args, " "))
	}
	return tw.Flush()
}
