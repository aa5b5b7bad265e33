package commands

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/barcelona-housing/barrios/internal/cli/output"
	"github.com/barcelona-housing/barrios/internal/store"
	"github.com/barcelona-housing/barrios/internal/verify"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format: text, markdown, json
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit the analysis database for integrity issues",
		Long: `Run the integrity checks against the analysis database and print a report.

Three independent, read-only checks are performed:
- Fragmentation: price rows sharing a (barrio, year, quarter) key,
  left behind by an incomplete upstream merge
- Completeness: demographic rows missing mean age or density
- Merge evidence: pipe-delimited identifier fields proving that
  multi-source upserts happened

Findings are informational and never affect the exit status. A missing
database file prints a notice and exits cleanly; a failing query against
a present database is fatal.`,
		Example: `  # Audit the configured database
  barrios check

  # Audit a specific file, machine-readable
  barrios check --database data/barrios.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// CheckOutput is the JSON output for the check command.
type CheckOutput struct {
	Database string         `json:"database"`
	Report   *verify.Report `json:"report"`
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	dbPath := cmdCtx.Cfg.DatabasePath

	// Missing store is a clean early exit, not an error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		r.Printf("Database not found: %s\n", dbPath)
		return nil
	}

	db, err := store.OpenReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	report, err := verify.Run(cmd.Context(), db)
	if err != nil {
		return err
	}

	checkOutput := &CheckOutput{Database: dbPath, Report: report}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(checkOutput)
	case output.ModeMarkdown:
		return renderCheckMarkdown(r, checkOutput)
	default:
		return renderCheckText(r, checkOutput)
	}
}

// checkSections returns the report broken into named sections with a
// status and detail lines. Shared by the text and markdown renderers so
// both stay in sync.
func checkSections(rep *verify.Report) []checkSection {
	var frag checkSection
	frag.name = "fragmentation"
	if rep.FragmentedGroups == 0 {
		frag.status = "pass"
		frag.summary = "no duplicate (barrio, year, quarter) keys"
	} else {
		frag.status = "warn"
		frag.summary = fmt.Sprintf("%d fragmented keys (incomplete upstream merge)", rep.FragmentedGroups)
		for _, k := range rep.FragmentSamples {
			frag.details = append(frag.details,
				fmt.Sprintf("barrio %d, %d T%d: %d rows", k.BarrioID, k.Anio, k.Trimestre, k.Rows))
		}
		if rep.FragmentedGroups > len(rep.FragmentSamples) {
			frag.details = append(frag.details,
				fmt.Sprintf("... and %d more", rep.FragmentedGroups-len(rep.FragmentSamples)))
		}
	}

	var comp checkSection
	comp.name = "completeness"
	if rep.IncompleteRows == 0 {
		comp.status = "pass"
		comp.summary = "all demographic rows carry mean age and density"
	} else {
		comp.status = "info"
		comp.summary = fmt.Sprintf("%d demographic rows missing edad_media or densidad_hab_km2", rep.IncompleteRows)
	}

	var merge checkSection
	merge.name = "merge evidence"
	merge.status = "info"
	if rep.MergedRows == 0 {
		merge.summary = "no multi-source merges recorded (sources may not have overlapped)"
	} else {
		merge.summary = fmt.Sprintf("%d rows merged from multiple sources", rep.MergedRows)
		for _, s := range rep.MergeSamples {
			merge.details = append(merge.details,
				fmt.Sprintf("barrio %d, %d T%d: dataset_id=%s source=%s", s.BarrioID, s.Anio, s.Trimestre, s.DatasetID, s.Source))
		}
		if rep.MergedRows > len(rep.MergeSamples) {
			merge.details = append(merge.details,
				fmt.Sprintf("... and %d more", rep.MergedRows-len(rep.MergeSamples)))
		}
	}

	return []checkSection{frag, comp, merge}
}

type checkSection struct {
	name    string
	status  string // "pass", "warn", "info"
	summary string
	details []string
}

func renderCheckText(r *output.Renderer, out *CheckOutput) error {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println("")
	r.Println(styles.Header1.Render("Housing Dataset Integrity Report"))
	r.Println(styles.Muted.Render(out.Database))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	for _, sec := range checkSections(out.Report) {
		icon := styles.StatusSuccess.String()
		switch sec.status {
		case "warn":
			icon = styles.StatusWarning.String()
		case "info":
			icon = styles.StatusInfo.String()
		}

		r.Println("   " + styles.Bold.Render(titleCaser.String(sec.name)))
		r.Printf("   %s %s\n", icon, sec.summary)
		for _, d := range sec.details {
			r.Println(styles.Muted.Render("       - " + d))
		}
		r.Println("")
	}

	return nil
}

func renderCheckMarkdown(r *output.Renderer, out *CheckOutput) error {
	titleCaser := cases.Title(language.English)

	r.Println("# Housing Dataset Integrity Report")
	r.Println("")
	r.Printf("Database: `%s`\n", out.Database)
	r.Println("")

	for _, sec := range checkSections(out.Report) {
		r.Println("## " + titleCaser.String(sec.name))
		r.Println("")
		r.Printf("- **[%s]** %s\n", strings.ToUpper(sec.status), sec.summary)
		for _, d := range sec.details {
			r.Printf("  - %s\n", d)
		}
		r.Println("")
	}

	return nil
}
