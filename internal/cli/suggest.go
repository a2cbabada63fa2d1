package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jimdowning-cyclops/bumper/internal/commit"
	"github.com/jimdowning-cyclops/bumper/internal/git"
	"github.com/jimdowning-cyclops/bumper/internal/version"
)

func newSuggestCommand(app *App) *cobra.Command {
	var tagPrefix string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a SemVer bump from conventional commits",
		Long: `Inspect the conventional commits made since the current version was tagged
and print the bump kind they call for: major for breaking feat or fix
commits, minor for feat, patch for fix, or "none".

The tag of the current version is {prefix}{current_version}. When it does not
exist the highest version tag with the prefix is used, or the whole history
when there is none. Only SemVer projects are supported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.suggest(tagPrefix)
		},
	}

	cmd.Flags().StringVar(&tagPrefix, "tag-prefix", "v", "prefix of version tags")
	return cmd
}

func (a *App) suggest(tagPrefix string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Scheme != version.SemVer {
		return errors.Newf("suggest only supports semver projects, this one uses %s", cfg.Scheme)
	}

	repo, err := git.Open(filepath.Dir(cfg.Path))
	if err != nil {
		return err
	}

	tag := tagPrefix + cfg.CurrentVersion.Plain()
	exists, err := repo.TagExists(tag)
	if err != nil {
		return err
	}
	if !exists {
		if tag, _, err = repo.FindLastTag(tagPrefix, version.SemVer); err != nil {
			return err
		}
	}

	infos, err := repo.CommitsSince(tag)
	if err != nil {
		return err
	}
	commits := lo.Map(infos, func(ci git.CommitInfo, _ int) commit.Commit {
		c := commit.Parse(ci.Subject, ci.Body)
		c.Hash = ci.Hash
		return c
	})

	kind, ok := commit.DetermineBump(commits)
	a.log().Debug("analysed commits",
		zap.String("since", tag),
		zap.Int("commits", len(commits)),
		zap.Bool("release", ok))
	if !ok {
		fmt.Fprintln(a.Out, "none")
		return nil
	}

	a.log().Debug("suggested bump",
		zap.Stringer("kind", kind),
		zap.Stringer("next", cfg.CurrentVersion.Bump(kind, a.now())))
	fmt.Fprintln(a.Out, kind)
	return nil
}
