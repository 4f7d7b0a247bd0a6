// dtogen init — scaffold a new dtogen.yaml in the target directory.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/f9-o/dtogen/internal/core/config"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

func NewInitCmd() *cobra.Command {
	var targetPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new dtogen.yaml in the current (or specified) directory",
		Example: `  dtogen init
  dtogen init --path ./my-service`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetPath == "" {
				targetPath = "."
			}
			outFile := filepath.Join(targetPath, config.ProjectFile)
			if _, err := os.Stat(outFile); err == nil && !force {
				return errs.Newf(errs.ErrValidation, "init", "%s already exists", outFile).
					WithAdvice("pass --force to overwrite it")
			}

			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return errs.Newf(errs.ErrConfig, "init", "create dir %q: %w", targetPath, err)
			}

			if err := os.WriteFile(outFile, []byte(config.DefaultConfigTemplate), 0644); err != nil {
				return errs.Newf(errs.ErrConfig, "init", "write %s: %w", config.ProjectFile, err)
			}

			pprint.Success("Created %s", outFile)
			pprint.Info("Edit it to point at your sample and build output, then run: dtogen generate")
			return nil
		},
	}

	cmd.Flags().StringVar(&targetPath, "path", ".", "Target directory for dtogen.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing dtogen.yaml")
	return cmd
}
