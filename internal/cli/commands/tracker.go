package commands

import (
	"fmt"

	"github.com/barcelona-housing/barrios/internal/tracker"
	"github.com/spf13/cobra"
)

// TrackerOptions holds options for the tracker command.
type TrackerOptions struct {
	PlanFile string
	DryRun   bool
}

// NewTrackerCommand creates the tracker command.
func NewTrackerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "GitHub project bookkeeping",
	}
	cmd.AddCommand(newTrackerSyncCommand())
	return cmd
}

func newTrackerSyncCommand() *cobra.Command {
	opts := &TrackerOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create missing labels, milestones, and issues from a plan file",
		Long: `Read a YAML plan of labels, milestones, and issues and create whatever
is missing in the configured GitHub repository. Existing items (matched
by name or title) are left untouched, so the sync is safe to re-run.

Repository and token come from the tracker section of barrios.yaml or
the BARRIOS_TRACKER_* environment variables.`,
		Example: `  barrios tracker sync --plan project-plan.yaml --dry-run
  barrios tracker sync --plan project-plan.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrackerSync(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PlanFile, "plan", "project-plan.yaml", "Path to the YAML plan file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would be created without creating it")

	return cmd
}

func runTrackerSync(cmd *cobra.Command, opts *TrackerOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	tc := cmdCtx.Cfg.Tracker

	if tc.Owner == "" || tc.Repo == "" {
		return fmt.Errorf("tracker.owner and tracker.repo must be configured")
	}
	if tc.Token == "" && !opts.DryRun {
		return fmt.Errorf("tracker.token is not set (export GITHUB_TOKEN or configure tracker.token)")
	}

	plan, err := tracker.LoadPlan(opts.PlanFile)
	if err != nil {
		return err
	}

	client := tracker.NewClient(tc.BaseURL, tc.Owner, tc.Repo, tc.Token, cmdCtx.Logger)
	result, err := tracker.Sync(cmd.Context(), client, plan, opts.DryRun)
	if err != nil {
		return err
	}

	verb := "Created"
	if opts.DryRun {
		verb = "Would create"
	}
	for _, a := range result.Created {
		r.Printf("%s %s %q\n", verb, a.Kind, a.Name)
	}
	for _, a := range result.Skipped {
		r.Printf("Skipped existing %s %q\n", a.Kind, a.Name)
	}
	r.Printf("%d created, %d skipped\n", len(result.Created), len(result.Skipped))
	return nil
}
