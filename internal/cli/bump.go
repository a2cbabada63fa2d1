package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jimdowning-cyclops/bumper/internal/config"
	"github.com/jimdowning-cyclops/bumper/internal/git"
	"github.com/jimdowning-cyclops/bumper/internal/patch"
	"github.com/jimdowning-cyclops/bumper/internal/rules"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

type bumpOptions struct {
	dryRun    bool
	commit    bool
	tag       bool
	tagPrefix string
}

func newBumpCommand(app *App) *cobra.Command {
	var opts bumpOptions

	cmd := &cobra.Command{
		Use:   "bump <major|minor|patch|date>",
		Short: "Bump the requested version component",
		Long: `Bump the requested version component and rewrite every configured occurrence
of the current version.

SemVer projects bump by major, minor or patch; CalVer projects bump by date.
A date bump in the same UTC month as the current version increments the micro
component, otherwise the version moves to the current year and month with
micro 0.

With --dry-run the change is printed as a diff and no file is modified.`,
		Example: `  bumper bump minor
  bumper bump patch --dry-run
  bumper bump date --commit --tag`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: lo.Map(version.AllKinds(), func(k version.Kind, _ int) string {
			return k.String()
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := version.ParseKind(args[0])
			if err != nil {
				return err
			}
			return app.bump(kind, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "preview the change as a diff without modifying files")
	cmd.Flags().BoolVar(&opts.commit, "commit", false, "commit the bumped files with git")
	cmd.Flags().BoolVar(&opts.tag, "tag", false, "tag the bump commit with git (implies --commit)")
	cmd.Flags().StringVar(&opts.tagPrefix, "tag-prefix", "v", "prefix for the tag created by --tag")
	return cmd
}

func (a *App) bump(kind version.Kind, opts bumpOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := version.CheckKind(cfg.Scheme, kind); err != nil {
		return err
	}

	current := cfg.CurrentVersion
	next := current.Bump(kind, a.now())
	a.log().Debug("computed next version",
		zap.Stringer("kind", kind),
		zap.Stringer("current", current),
		zap.Stringer("next", next))
	if next.Compare(current) <= 0 {
		a.log().Warn("new version does not sort after the current version",
			zap.Stringer("current", current),
			zap.Stringer("next", next))
	}

	// The configuration file carries current_version too.
	targets := rules.Merge(cfg.AllRules())

	results, err := patch.New(a.printer(), a.log()).Apply(current, next, targets, opts.dryRun)
	if err != nil {
		return err
	}

	if !opts.commit && !opts.tag {
		return nil
	}
	if opts.dryRun {
		a.log().Warn("dry run: skipping git commit and tag")
		return nil
	}
	return a.record(cfg, results, current, next, opts)
}

// record commits the changed files and optionally tags the commit.
func (a *App) record(cfg *config.Config, results []patch.Result, current, next version.Version, opts bumpOptions) error {
	changed := lo.Map(
		lo.Filter(results, func(r patch.Result, _ int) bool { return r.Changed }),
		func(r patch.Result, _ int) string { return r.File },
	)
	if len(changed) == 0 {
		return errors.New("no files changed, nothing to commit")
	}

	repo, err := git.Open(filepath.Dir(cfg.Path))
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Bump version: %s -> %s", current, next)
	if err := repo.Add(changed...); err != nil {
		return errors.Wrap(err, "failed to stage bumped files")
	}
	if err := repo.Commit(message); err != nil {
		return errors.Wrap(err, "failed to commit")
	}
	fmt.Fprintf(a.Out, "Committed %q\n", message)

	if !opts.tag {
		return nil
	}
	tag := opts.tagPrefix + next.Plain()
	if err := repo.Tag(tag, message); err != nil {
		return errors.Wrapf(err, "failed to tag %s", tag)
	}
	fmt.Fprintf(a.Out, "Tagged %s\n", tag)
	return nil
}
