package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jimdowning-cyclops/bumper/internal/patch"
)

func newShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current version and where it is replaced",
		Long: `Show the current version, the versioning type and every file rule, including
the rule for the configuration file itself, with the number of times the
rendered search string occurs in its file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.show()
		},
	}
}

func (a *App) show() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Current version: %s (%s)\n", cfg.CurrentVersion, cfg.Scheme)

	t := table.NewWriter()
	t.SetOutputMirror(a.Out)
	t.AppendHeader(table.Row{"File", "Search", "Matches"})
	for _, r := range cfg.AllRules() {
		matches := "missing"
		if n, err := patch.Count(r.File, r.Search, cfg.CurrentVersion); err == nil {
			matches = fmt.Sprint(n)
		} else {
			a.log().Debug("cannot count matches", zap.String("file", r.File), zap.Error(err))
		}
		t.AppendRow(table.Row{a.relative(r.File), r.Search, matches})
	}
	t.Render()
	return nil
}
