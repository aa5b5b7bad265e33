package commands

import (
	"errors"
	"fmt"

	"github.com/barcelona-housing/barrios/internal/transform"
	"github.com/spf13/cobra"
)

// NewTransformCommand creates the transform command group.
func NewTransformCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Run dataset transformers",
		Long: `Run one of the registered dataset transformers against the analysis
database. Most transformers are placeholders until their per-barrio math
is settled; running one reports that instead of producing partial data.`,
	}

	cmd.AddCommand(newTransformListCommand())
	cmd.AddCommand(newTransformRunCommand())
	cmd.AddCommand(newTransformMatchCommand())

	return cmd
}

func newTransformListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered transformers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			for _, info := range transform.List() {
				cmdCtx.Renderer.Printf("%-12s %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
}

func newTransformRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Run a transformer by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			if _, err := requireDatabase(cmd); err != nil {
				return err
			}
			err := transform.Run(cmd.Context(), args[0], transform.Options{
				DatabasePath: cmdCtx.Cfg.DatabasePath,
			})
			if errors.Is(err, transform.ErrNotImplemented) {
				cmdCtx.Renderer.Warning(fmt.Sprintf("%s is not implemented yet", args[0]))
				return nil
			}
			return err
		},
	}
}

func newTransformMatchCommand() *cobra.Command {
	var relaxed bool
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the external barrio matcher",
		Long: `Invoke the external geographic matcher against the analysis database.
The matcher assigns a barrio to every record with coordinates or a
free-text location. With --relaxed, the search radius widens and the
name-similarity cutoff drops, for datasets with noisy coordinates.`,
		Example: `  barrios transform match
  barrios transform match --relaxed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			if _, err := requireDatabase(cmd); err != nil {
				return err
			}
			opts := transform.DefaultMatchOptions()
			opts.DatabasePath = cmdCtx.Cfg.DatabasePath
			if relaxed {
				opts = opts.Relaxed()
			}
			return transform.Match(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&relaxed, "relaxed", false, "Widen the search radius and lower the similarity cutoff")

	return cmd
}
