package transform

import (
	"context"
	"fmt"
)

func init() {
	Register("idw", "Interpolate air-quality readings onto barrios (IDW)", runIDW)
	Register("education", "Pivot education levels into per-barrio percentages", runEducation)
	Register("noise", "Aggregate the noise census onto barrios", runNoise)
}

// The three spatial transformers are pending: their inputs are settled
// (station readings, education census, noise census) but the per-barrio
// math has not been agreed with the analysis side yet.

func runIDW(_ context.Context, _ Options) error {
	return fmt.Errorf("idw: %w", ErrNotImplemented)
}

func runEducation(_ context.Context, _ Options) error {
	return fmt.Errorf("education: %w", ErrNotImplemented)
}

func runNoise(_ context.Context, _ Options) error {
	return fmt.Errorf("noise: %w", ErrNotImplemented)
}
