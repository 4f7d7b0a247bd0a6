// dtogen version — print build information.
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/f9-o/dtogen/pkg/pprint"
)

// Set from main at startup.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// CreatedBy is the Created-By manifest value for archives built by this binary.
func CreatedBy() string {
	return "dtogen " + Version
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"os_arch"`
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print dtogen version information",
		Args:         exactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildInfo{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			}

			// The runtime is not built for version, so read the flag directly.
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(info)
			}

			pprint.PrintBanner(info.Version, info.BuildDate)
			pprint.KV("Commit", info.Commit)
			pprint.KV("Go", info.GoVersion)
			pprint.KV("Platform", info.Platform)
			return nil
		},
	}
}
