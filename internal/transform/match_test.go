package transform

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchOptions_Args(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.DatabasePath = "data/barrios.db"

	assert.Equal(t, []string{
		"--database", "data/barrios.db",
		"--max-distance", "100",
		"--min-score", "0.85",
	}, opts.Args())
}

func TestMatchOptions_Relaxed(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.DatabasePath = "data/barrios.db"
	relaxed := opts.Relaxed()

	assert.Equal(t, []string{
		"--database", "data/barrios.db",
		"--max-distance", "300",
		"--min-score", "0.6",
		"--allow-unmatched",
	}, relaxed.Args())

	// The strict options are untouched.
	assert.Equal(t, 100.0, opts.MaxDistanceM)
	assert.False(t, opts.AllowUnmatched)
}

func TestMatch_MissingCommand(t *testing.T) {
	opts := DefaultMatchOptions()
	opts.Command = "definitely-not-a-real-matcher"

	var out, errOut bytes.Buffer
	err := Match(context.Background(), opts, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matcher failed")
}
