/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the mergebot CLI: it triages every selected open
// pull request against the project board, then reconciles the board's
// columns against the set of still-open PRs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/sammyfilly/dt-mergebot/board"
	"github.com/sammyfilly/dt-mergebot/execute"
	"github.com/sammyfilly/dt-mergebot/gh"
	"github.com/sammyfilly/dt-mergebot/plan"
	"github.com/sammyfilly/dt-mergebot/pull"
	"github.com/sammyfilly/dt-mergebot/run"
	"github.com/sammyfilly/dt-mergebot/state"
)

type config struct {
	// Exactly one of the token or the App credential set is required.
	GitHubToken    string `env:"GITHUB_TOKEN"`
	AppID          int64  `env:"GITHUB_APP_ID"`
	InstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	PrivateKeyPath string `env:"GITHUB_PRIVATE_KEY_PATH"`

	Owner         string `env:"GITHUB_OWNER,default=DefinitelyTyped"`
	Repo          string `env:"GITHUB_REPO,default=DefinitelyTyped"`
	ProjectNumber int    `env:"GITHUB_PROJECT_NUMBER,default=5"`

	// PolicyFile optionally overrides the built-in rule table.
	PolicyFile string `env:"MERGEBOT_POLICY_FILE"`
}

type flags struct {
	dryRun    bool
	noCleanup bool

	showQuery     bool
	showState     bool
	showActions   bool
	showMutations bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}

func rootCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "mergebot [pr-number|pr-range ...]",
		Short: "Triage open pull requests against the project board",
		Long: `mergebot derives a state for each selected open pull request, plans label,
comment, and board-column remediations, applies them, and finally removes
stale cards from the board. Positional arguments select PR numbers ("5") or
ranges ("10-12"), combined by union; with no arguments every open PR is
processed.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), f, args)
		},
	}
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "plan and construct mutations without submitting anything")
	cmd.Flags().BoolVar(&f.noCleanup, "no-cleanup", false, "skip board reconciliation")
	cmd.Flags().BoolVar(&f.showQuery, "show-query", false, "print the raw query result per PR")
	cmd.Flags().BoolVar(&f.showState, "show-state", false, "print the derived state per PR")
	cmd.Flags().BoolVar(&f.showActions, "show-actions", false, "print the planned actions per PR")
	cmd.Flags().BoolVar(&f.showMutations, "show-mutations", false, "print the submitted (or would-be) mutations per PR")
	return cmd
}

func runBot(ctx context.Context, f flags, args []string) error {
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	policy := plan.DefaultPolicy()
	if cfg.PolicyFile != "" {
		var err error
		if policy, err = plan.LoadPolicy(cfg.PolicyFile); err != nil {
			return err
		}
	}

	selection, err := run.ParseSelection(args)
	if err != nil {
		return err
	}

	var authOpt gh.Option
	switch {
	case cfg.GitHubToken != "":
		authOpt = gh.WithToken(cfg.GitHubToken)
	case cfg.AppID != 0:
		authOpt = gh.WithAppCredentials(cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	default:
		return fmt.Errorf("set GITHUB_TOKEN or GITHUB_APP_ID/GITHUB_INSTALLATION_ID/GITHUB_PRIVATE_KEY_PATH")
	}

	client, err := gh.NewClient(ctx, cfg.Owner, cfg.Repo, cfg.ProjectNumber, authOpt)
	if err != nil {
		return fmt.Errorf("creating GitHub client: %w", err)
	}

	deriver := state.New(state.WithStaleAfter(time.Duration(policy.StaleAfterDays) * 24 * time.Hour))
	planner := plan.New(policy)
	executor := execute.New(client, execute.WithDryRun(f.dryRun))
	reconciler := board.New(client, client, client,
		board.WithArchiveColumn(policy.Archive.Column),
		board.WithArchiveKeep(policy.Archive.Keep),
	)

	clog.InfoContextf(ctx, "Triaging %s/%s (project %d, dry-run=%t)", cfg.Owner, cfg.Repo, cfg.ProjectNumber, f.dryRun)

	orch := run.New(client, deriver.Derive, plannerFunc(planner, f.showActions),
		executor,
		run.WithSelection(selection),
		run.WithDryRun(f.dryRun),
		run.WithCleanup(!f.noCleanup),
		run.WithReconciler(reconciler),
		run.WithColumnSource(client),
		run.WithHooks(buildHooks(ctx, f)),
	)
	return orch.Run(ctx)
}

// plannerFunc adapts the planner, attaching the debug sink when the planned
// actions are being displayed. The sink is observational only.
func plannerFunc(planner *plan.Planner, debug bool) run.PlanFunc {
	if !debug {
		return func(r state.BotResult) []plan.Action {
			return planner.Plan(r)
		}
	}
	return func(r state.BotResult) []plan.Action {
		return planner.Plan(r, plan.WithDebug(func(format string, args ...any) {
			fmt.Printf("  · "+format+"\n", args...)
		}))
	}
}

func buildHooks(ctx context.Context, f flags) run.Hooks {
	var h run.Hooks
	if f.showQuery {
		h.RawQuery = func(number int, res *pull.QueryResult) {
			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				clog.WarnContextf(ctx, "marshaling query result for PR #%d: %v", number, err)
				return
			}
			fmt.Printf("=== PR #%d raw query ===\n%s\n", number, b)
		}
	}
	if f.showState {
		h.DerivedState = func(number int, r state.BotResult) {
			fmt.Printf("PR #%d: %s", number, r.Kind)
			if r.Message != "" {
				fmt.Printf(" (%s)", r.Message)
			}
			fmt.Println()
		}
	}
	if f.showActions {
		h.PlannedActions = func(number int, actions []plan.Action) {
			renderActions(os.Stdout, number, actions)
		}
	}
	if f.showMutations {
		h.Mutations = func(number int, muts []execute.Mutation) {
			renderMutations(os.Stdout, number, muts)
		}
	}
	return h
}
