// dtogen history — list past generate and package runs.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/tui"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

func NewHistoryCmd() *cobra.Command {
	var (
		limit  int
		browse bool
	)

	cmd := &cobra.Command{
		Use:       "history [generate|package]",
		Short:     "List recorded generate and package runs, newest first",
		Args:      maxArgs(1),
		ValidArgs: []string{"generate", "package"},
		Example: `  dtogen history
  dtogen history package --limit 5
  dtogen history --tui`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			var gens []v1.GenerationRecord
			var pkgs []v1.PackageRecord
			var err error
			switch kind {
			case "", "generate", "package":
			default:
				return errs.Newf(errs.ErrValidation, "history", "unknown run kind %q (want generate or package)", kind)
			}
			if kind != "package" {
				if gens, err = rt.State.ListGenerations(limit); err != nil {
					return err
				}
			}
			if kind != "generate" {
				if pkgs, err = rt.State.ListPackages(limit); err != nil {
					return err
				}
			}

			if rt.Flags.JSONOutput {
				return printJSON(map[string]any{"generations": gens, "packages": pkgs})
			}
			if browse {
				return runBrowser(tui.Config{Title: "History", Items: historyItems(gens, pkgs)})
			}

			if kind != "package" {
				pprint.Header("Generations")
				t := pprint.NewTable("ID", "STARTED", "ROOT", "PACKAGE", "CLASSES", "WRITTEN", "RESULT")
				for _, r := range gens {
					t.AddRow(r.ID, r.StartedAt.Local().Format(time.DateTime), r.RootClass, r.Package,
						fmt.Sprint(r.Classes), fmt.Sprint(r.Written), string(r.Result))
				}
				t.Render()
			}
			if kind != "generate" {
				pprint.Header("Packages")
				t := pprint.NewTable("ID", "STARTED", "OUTPUT", "MAIN CLASS", "ENTRIES", "DUPLICATES", "RESULT")
				for _, r := range pkgs {
					t.AddRow(r.ID, r.StartedAt.Local().Format(time.DateTime), r.Out, r.MainClass,
						fmt.Sprint(r.Entries), fmt.Sprint(r.Duplicates), string(r.Result))
				}
				t.Render()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records per kind (0 = all)")
	cmd.Flags().BoolVar(&browse, "tui", false, "Browse runs interactively")
	return cmd
}
