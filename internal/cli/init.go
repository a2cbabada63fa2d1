package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jimdowning-cyclops/bumper/internal/config"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

func newInitCommand(app *App) *cobra.Command {
	scheme := version.SemVer
	format := config.TOML
	var ignoreExisting bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default bumper configuration file",
		Long: `Generate a starter configuration file in the working directory.

An existing configuration file is preserved unless --ignore-existing is set,
in which case it is overwritten. Overwriting is not reversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault(app.Dir, scheme, format, ignoreExisting, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Wrote %s\n", filepath.Base(path))
			return nil
		},
	}

	cmd.Flags().Var(&scheme, "versioning-type", "versioning type of the project")
	cmd.Flags().Var(&format, "format", "configuration file format")
	cmd.Flags().BoolVar(&ignoreExisting, "ignore-existing", false, "overwrite an existing configuration file")
	return cmd
}
