package transform

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// MatchOptions controls the external geographic matcher. The matcher
// itself lives outside this repository; this side only builds its
// argument list and forwards the invocation.
type MatchOptions struct {
	Command        string  // matcher executable
	DatabasePath   string
	MaxDistanceM   float64 // candidate search radius
	MinScore       float64 // minimum name-similarity score to accept
	AllowUnmatched bool    // keep rows the matcher could not place
}

// DefaultMatchOptions are the strict matcher settings.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Command:      "match_barrios",
		MaxDistanceM: 100,
		MinScore:     0.85,
	}
}

// Relaxed loosens the matcher settings for datasets with noisy
// coordinates or inconsistent naming. Same matcher, different flags.
func (o MatchOptions) Relaxed() MatchOptions {
	o.MaxDistanceM = 300
	o.MinScore = 0.60
	o.AllowUnmatched = true
	return o
}

// Args builds the matcher's command-line arguments.
func (o MatchOptions) Args() []string {
	args := []string{
		"--database", o.DatabasePath,
		"--max-distance", strconv.FormatFloat(o.MaxDistanceM, 'f', -1, 64),
		"--min-score", strconv.FormatFloat(o.MinScore, 'f', -1, 64),
	}
	if o.AllowUnmatched {
		args = append(args, "--allow-unmatched")
	}
	return args
}

// Match invokes the external matcher and streams its output through.
func Match(ctx context.Context, o MatchOptions, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, o.Command, o.Args()...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("matcher failed: %w", err)
	}
	return nil
}
