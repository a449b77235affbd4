// Package main provides the entry point for the auto-release CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sgaunet/auto-release/internal/lock"
	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/auto-release/internal/security"
	"github.com/sgaunet/auto-release/internal/timeutil"
	"github.com/sgaunet/auto-release/internal/ui"
	"github.com/sgaunet/auto-release/pkg/config"
	"github.com/sgaunet/auto-release/pkg/git"
	"github.com/sgaunet/auto-release/pkg/platform"
	"github.com/sgaunet/auto-release/pkg/release"
	"github.com/sgaunet/auto-release/pkg/version"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	dryRun     bool
	assumeYes  bool
	skipEmpty  bool
	log        = logger.NoLogger()
)

var rootCmd = &cobra.Command{
	Use:   "auto-release <major|minor|patch>",
	Short: "Cut a release on GitHub or GitLab",
	Long: `auto-release bumps the version declared in the repository manifest, tags
the bump commit, and opens a pull request from the integration branch into
the release branch listing every pull request merged since the last release.`,
	Args:          bumpArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Set log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"Path to the configuration file (default ~/.config/auto-release/config.yml)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Resolve the release and print the change log without changing anything")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false,
		"Do not ask for confirmation")
	rootCmd.Flags().BoolVar(&skipEmpty, "skip-empty", false,
		"Fail instead of releasing when no pull request was merged")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if errors.Is(err, release.ErrCancelled) {
		log.Warn("Release cancelled, nothing was changed")
		return
	}
	if err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err to w, followed by the usage text for a usage error,
// and returns the process exit code.
func report(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", err)
	if errors.Is(err, errUsage) {
		fmt.Fprint(w, rootCmd.UsageString())
	}
	return exitCode(err)
}

func bumpArgs(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one bump kind (%v), got %d arguments",
			errUsage, version.Kinds, len(args))
	}
	return nil
}

// runRelease performs one release. Every error it returns has credentials
// masked from its message.
func runRelease(ctx context.Context, raw string) (err error) {
	log = logger.NewLogger(logLevel)
	redactor := security.NewRedactor()
	defer func() {
		err = redactor.Error(err)
	}()

	if _, err := version.ParseBumpKind(raw); err != nil {
		return err
	}

	runID := uuid.NewString()
	log.Infof("auto-release run %s", runID)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runLock := lock.New(cfg.LockFile)
	if err := runLock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := runLock.Release(); err != nil {
			log.Warnf("Failed to release lock: %v", err)
		}
	}()

	token := security.TokenFromEnv(cfg.TokenEnv())
	redactor = security.NewRedactor(token)
	if token.IsEmpty() {
		log.Warnf("%s is not set, requests are unauthenticated", cfg.TokenEnv())
	}

	provider, err := platform.NewProvider(cfg, token, log)
	if err != nil {
		return err
	}
	log.Infof("Releasing %s/%s on %s", cfg.Release.Owner, cfg.Release.Repo, provider.PlatformName())

	orch, err := release.NewOrchestrator(provider, cfg, release.Options{
		DryRun:    dryRun,
		SkipEmpty: skipEmpty,
		RunID:     runID,
	})
	if err != nil {
		return err
	}
	orch.SetLogger(log)

	if ui.IsTerminal(os.Stdout) {
		orch.SetObserver(ui.NewStepProgress(log))
	}
	if !assumeYes && ui.IsTerminal(os.Stdin) {
		confirmer := ui.NewConfirmer()
		orch.SetConfirm(func(plan *release.Plan) (bool, error) {
			fmt.Println(ui.RenderSummary("Release plan", planRows(cfg, plan)))
			fmt.Println(plan.Notes)
			return confirmer.Confirm(fmt.Sprintf("Publish %s?", plan.TagName))
		})
	}

	result, err := orch.Run(ctx, raw)
	if err != nil {
		return err
	}

	if result.DryRun {
		fmt.Println(ui.RenderSummary("Release plan (dry run)", planRows(cfg, result.Plan)))
		fmt.Println(result.Plan.Notes)
		return nil
	}

	fmt.Println(ui.RenderSummary("Release", resultRows(result)))
	log.Infof("Released %s in %s", result.Plan.TagName, timeutil.FormatDuration(result.Elapsed))
	return nil
}

// loadConfig reads the configuration file and completes it from the origin
// remote of the working directory.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	repo, err := git.OpenRepository(".")
	if err != nil {
		log.Debug(fmt.Sprintf("No local repository: %v", err))
	} else if remote, err := repo.Origin(); err != nil {
		log.Debug(fmt.Sprintf("No usable origin remote: %v", err))
	} else {
		log.Debug(fmt.Sprintf("Origin remote %s (%s)", remote.Path(), remote.Platform))
		cfg.ApplyRemote(remote)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func planRows(cfg *config.Config, plan *release.Plan) []ui.SummaryRow {
	last := "none"
	if plan.LastRelease != nil {
		last = plan.LastRelease.Tag.Name
	}
	next := plan.NextVersion
	switch {
	case plan.Tagged != nil:
		next += " (tagged, opening pull request)"
	case plan.Resume:
		next += " (resuming)"
	}
	return []ui.SummaryRow{
		{Label: "Repository", Value: cfg.Release.Owner + "/" + cfg.Release.Repo},
		{Label: "Bump", Value: string(plan.Kind)},
		{Label: "Current version", Value: plan.BaseVersion + " (" + plan.BaseSource + ")"},
		{Label: "Next version", Value: next},
		{Label: "Tag", Value: plan.TagName},
		{Label: "Last release", Value: last},
		{Label: "Merged since", Value: timeutil.FormatTimestamp(plan.Cutoff)},
		{Label: "Pull requests", Value: fmt.Sprintf("%d of %d scanned", len(plan.PullRequests), plan.Scanned)},
		{Label: "Target", Value: cfg.Release.IntegrationBranch + " -> " + cfg.Release.ReleaseBranch},
	}
}

func resultRows(result *release.Result) []ui.SummaryRow {
	rows := []ui.SummaryRow{
		{Label: "Version", Value: result.Plan.NextVersion},
		{Label: "Bump commit", Value: result.CommitSHA},
	}
	if result.Tag != nil {
		rows = append(rows, ui.SummaryRow{Label: "Tag", Value: result.Tag.Ref})
	}
	return append(rows,
		ui.SummaryRow{Label: "Head", Value: result.Head},
		ui.SummaryRow{Label: "Pull request", Value: result.PullRequestURL},
		ui.SummaryRow{Label: "Elapsed", Value: timeutil.FormatDuration(result.Elapsed)},
	)
}
