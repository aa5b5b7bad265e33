package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/barcelona-housing/barrios/internal/store"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the analysis database",
		Long: `Execute read-only SQL against the analysis database.

Useful for inspecting the fact tables the ETL pipeline produces. Supports
multiple output formats for scripting. When invoked without arguments on
a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  barrios query "SELECT * FROM precios_alquiler LIMIT 10"

  # List available tables
  barrios query tables

  # Show schema for a table
  barrios query schema demografia

  # Output as CSV
  barrios query "SELECT * FROM barrios" --format csv

  # Interactive mode
  barrios query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

// requireDatabase returns the configured database path, failing if the
// file does not exist.
func requireDatabase(cmd *cobra.Command) (string, error) {
	cmdCtx := NewCommandContext(cmd)
	dbPath := cmdCtx.Cfg.DatabasePath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("analysis database not found at %s (run 'barrios initdb' or the ETL pipeline first)", dbPath)
	}
	return dbPath, nil
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	dbPath, err := requireDatabase(cmd)
	if err != nil {
		return err
	}

	// Determine SQL source
	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, dbPath, opts)
	}

	db, err := store.OpenReadOnly(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return runAndRender(cmd.Context(), cmd.OutOrStdout(), db, sqlQuery, opts.Format)
}

func runAndRender(ctx context.Context, w io.Writer, db *sql.DB, sqlQuery, format string) error {
	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderRows(w, rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and views in the analysis database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, err := requireDatabase(cmd)
			if err != nil {
				return err
			}
			db, err := store.OpenReadOnly(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			return listTables(cmd.Context(), cmd.OutOrStdout(), db, opts.Format)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := requireDatabase(cmd)
			if err != nil {
				return err
			}
			db, err := store.OpenReadOnly(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			return showSchema(cmd.Context(), cmd.OutOrStdout(), db, args[0], opts.Format)
		},
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
