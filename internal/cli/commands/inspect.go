// dtogen inspect — list the entries and manifest of an archive.
package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/f9-o/dtogen/internal/fatjar"
	"github.com/f9-o/dtogen/internal/tui"
	"github.com/f9-o/dtogen/pkg/pprint"
)

func NewInspectCmd() *cobra.Command {
	var entries, browse bool

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Show the manifest and entries of a jar",
		Args:  exactArgs(1),
		Example: `  dtogen inspect build/libs/app-all.jar
  dtogen inspect build/libs/app-all.jar --entries
  dtogen inspect build/libs/app-all.jar --tui`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := FromContext(cmd.Context())

			listing, err := fatjar.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rt.Flags.JSONOutput {
				return printJSON(listing)
			}
			if browse {
				return runBrowser(tui.Config{Title: listing.Path, Items: inspectItems(listing)})
			}

			pprint.Header("Archive — " + listing.Path)
			pprint.KV("Files", fmt.Sprint(listing.Files))
			pprint.KV("Directories", fmt.Sprint(listing.Directories))

			if listing.Manifest == nil {
				pprint.Warn("no %s in archive", fatjar.ManifestPath)
			} else {
				names := make([]string, 0, len(listing.Manifest))
				for k := range listing.Manifest {
					names = append(names, k)
				}
				sort.Strings(names)
				t := pprint.NewTable("ATTRIBUTE", "VALUE")
				for _, k := range names {
					t.AddRow(k, listing.Manifest[k])
				}
				t.Render()
			}

			if entries {
				for _, e := range listing.Entries {
					fmt.Fprintln(pprint.Out, e)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&entries, "entries", false, "List every entry path")
	cmd.Flags().BoolVar(&browse, "tui", false, "Browse the archive interactively")
	return cmd
}
