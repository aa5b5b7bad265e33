package commands

import (
	"strings"

	"github.com/barcelona-housing/barrios/internal/opendata"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// DatasetsOptions holds options for the datasets command.
type DatasetsOptions struct {
	Format string
	Limit  int
}

// NewDatasetsCommand creates the datasets command.
func NewDatasetsCommand() *cobra.Command {
	opts := &DatasetsOptions{}

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Search the Open Data BCN portal",
		Long: `Search and inspect datasets on the Open Data BCN portal.

These are the source datasets the ETL pipeline ingests; the search helper
exists to locate candidates (rental prices, census, density) without
leaving the terminal.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json")

	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search datasets by keyword",
		Example: `  barrios datasets search lloguer
  barrios datasets search "padró densitat" --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasetsSearch(cmd, args[0], opts)
		},
	}
	searchCmd.Flags().IntVar(&opts.Limit, "limit", 10, "Maximum results to show")

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one dataset with its resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasetsShow(cmd, args[0], opts)
		},
	}

	cmd.AddCommand(searchCmd)
	cmd.AddCommand(showCmd)

	return cmd
}

func runDatasetsSearch(cmd *cobra.Command, term string, opts *DatasetsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	client := opendata.New(cmdCtx.Cfg.OpenData.BaseURL, cmdCtx.Logger)

	datasets, total, err := client.Search(cmd.Context(), term, opts.Limit)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return cmdCtx.Renderer.JSON(datasets)
	}

	if len(datasets) == 0 {
		cmdCtx.Renderer.Printf("No datasets matched %q\n", term)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Title", "Formats", "Modified"})
	for _, d := range datasets {
		t.AppendRow(table.Row{d.Name, d.Title, resourceFormats(d), d.Modified})
	}
	t.Render()
	cmdCtx.Renderer.Printf("(%d of %d matches)\n", len(datasets), total)
	return nil
}

func runDatasetsShow(cmd *cobra.Command, name string, opts *DatasetsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	client := opendata.New(cmdCtx.Cfg.OpenData.BaseURL, cmdCtx.Logger)

	dataset, err := client.Show(cmd.Context(), name)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return cmdCtx.Renderer.JSON(dataset)
	}

	r := cmdCtx.Renderer
	r.Printf("%s\n", dataset.Title)
	r.Printf("  name: %s\n", dataset.Name)
	if dataset.Org.Title != "" {
		r.Printf("  publisher: %s\n", dataset.Org.Title)
	}
	r.Printf("  modified: %s\n", dataset.Modified)
	if dataset.Notes != "" {
		r.Printf("\n%s\n", dataset.Notes)
	}

	if len(dataset.Resources) > 0 {
		r.Println("")
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Resource", "Format", "URL"})
		for _, res := range dataset.Resources {
			t.AppendRow(table.Row{res.Name, res.Format, res.URL})
		}
		t.Render()
	}
	return nil
}

func resourceFormats(d opendata.Dataset) string {
	seen := make(map[string]bool)
	var formats []string
	for _, res := range d.Resources {
		f := strings.ToUpper(res.Format)
		if f != "" && !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return strings.Join(formats, ",")
}
