package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/barcelona-housing/barrios/internal/store"
	"github.com/spf13/cobra"
)

// InitDBOptions holds options for the initdb command.
type InitDBOptions struct {
	Demo bool
}

// NewInitDBCommand creates the initdb command.
func NewInitDBCommand() *cobra.Command {
	opts := &InitDBOptions{}
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Create the analysis database schema locally",
		Long: `Create the analysis database schema via embedded migrations.

In production the database is written by the ETL pipeline; initdb exists
so the inspection commands are usable in development without it. With
--demo a small sample dataset is loaded as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInitDB(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Demo, "demo", false, "Load a small demo dataset")

	return cmd
}

func runInitDB(cmd *cobra.Command, opts *InitDBOptions) error {
	cmdCtx := NewCommandContext(cmd)
	dbPath := cmdCtx.Cfg.DatabasePath

	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Migrate(); err != nil {
		return err
	}

	version, err := s.SchemaVersion()
	if err != nil {
		return err
	}

	if opts.Demo {
		if err := s.LoadDemo(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load demo dataset: %w", err)
		}
	}

	cmdCtx.Logger.Debug("database initialized", "path", dbPath, "schema_version", version)
	cmdCtx.Renderer.Printf("Initialized %s (schema v%d)\n", dbPath, version)
	if opts.Demo {
		cmdCtx.Renderer.Println("Demo dataset loaded")
	}
	return nil
}
