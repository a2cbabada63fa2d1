// Package cli wires the bumper commands together.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jimdowning-cyclops/bumper/internal/config"
	"github.com/jimdowning-cyclops/bumper/internal/patch"
)

// App holds what the commands need from the outside world, so tests can run
// them against a temporary directory and a fixed clock.
type App struct {
	Dir     string           // Working directory
	Out     io.Writer        // Command output
	Err     io.Writer        // Logs
	Now     func() time.Time // Clock used for CalVer bumps and starter configs
	Version string           // Version of the tool itself

	configPath string
	verbose    bool
	noColor    bool
	logger     *zap.Logger
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(toolVersion string) int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	app := &App{
		Dir:     dir,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Now:     time.Now,
		Version: toolVersion,
	}
	if err := NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the bumper command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "bumper",
		Short: "Bump the project version across files",
		Long: `bumper computes the next SemVer or CalVer version from the current_version
declared in its configuration and rewrites every configured occurrence of the
old version, or previews the change as a diff.

The configuration is read from .bumper.toml, .bumper.yml, .bumper.yaml or the
[tool.bumper] table of pyproject.toml in the working directory.`,
		Version:       app.Version,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Arguments are valid by now; later failures are not usage errors.
			cmd.SilenceUsage = true
			app.logger = newLogger(app.Err, app.verbose)
			return nil
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)
	addGlobalFlags(root.PersistentFlags(), app)

	root.AddCommand(
		newBumpCommand(app),
		newInitCommand(app),
		newShowCommand(app),
		newSuggestCommand(app),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, app *App) {
	fs.StringVarP(&app.configPath, "config", "c", "", "path to the configuration file (default: search the working directory)")
	fs.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&app.noColor, "no-color", false, "disable coloured output")
}

func (a *App) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

// loadConfig loads the configuration named by --config, or the first one
// found in the working directory.
func (a *App) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if a.configPath != "" {
		path := a.configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.Dir, path)
		}
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(a.Dir)
	}
	if err != nil {
		return nil, err
	}

	a.log().Debug("loaded config",
		zap.String("path", cfg.Path),
		zap.Stringer("scheme", cfg.Scheme),
		zap.Stringer("current", cfg.CurrentVersion),
		zap.Int("rules", len(cfg.Rules)))
	for _, w := range cfg.Lint() {
		a.log().Warn(w)
	}
	return cfg, nil
}

func (a *App) printer() patch.Printer {
	return newColorPrinter(a.Out, !a.noColor)
}

// relative shortens path for display when it lies below the working directory.
func (a *App) relative(path string) string {
	if rel, err := filepath.Rel(a.Dir, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}
