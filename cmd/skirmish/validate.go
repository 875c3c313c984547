package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/squad-tactics/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Load a content directory and report the first content error",
	Long: `Validate decodes every catalog file in dir (or the embedded content when
no dir is given) and checks it against the rule vocabulary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		cat    *catalog.Catalog
		err    error
		source = "embedded content"
	)
	if len(args) == 1 {
		source = args[0]
		cat, err = catalog.LoadDir(args[0])
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", source, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s is valid\n", source)
	fmt.Fprintf(out, "  actions:   %s\n", strings.Join(cat.ActionIDs(), ", "))
	fmt.Fprintf(out, "  scenarios: %s\n", strings.Join(cat.ScenarioIDs(), ", "))
	return nil
}
