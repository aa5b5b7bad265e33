package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, `
labels:
  - name: etl
    color: "1d76db"
    description: Pipeline work
  - name: data-quality
    color: "d93f0b"
milestones:
  - title: "v1: rental prices"
    description: First fact table
issues:
  - title: Merge overlapping price datasets
    body: Two portal datasets cover the same quarters.
    labels: [etl]
    milestone: "v1: rental prices"
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)

	assert.Len(t, plan.Labels, 2)
	assert.Len(t, plan.Milestones, 1)
	require.Len(t, plan.Issues, 1)
	assert.Equal(t, "v1: rental prices", plan.Issues[0].Milestone)
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read plan")
}

func TestLoadPlan_BadYAML(t *testing.T) {
	path := writePlan(t, "labels: [}")
	_, err := LoadPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse plan")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr string
	}{
		{
			name: "valid",
			plan: Plan{
				Labels:     []Label{{Name: "etl"}},
				Milestones: []Milestone{{Title: "v1"}},
				Issues:     []Issue{{Title: "Do it", Labels: []string{"etl"}, Milestone: "v1"}},
			},
		},
		{
			name:    "label without name",
			plan:    Plan{Labels: []Label{{Color: "ffffff"}}},
			wantErr: "label 0 has no name",
		},
		{
			name:    "milestone without title",
			plan:    Plan{Milestones: []Milestone{{Description: "x"}}},
			wantErr: "milestone 0 has no title",
		},
		{
			name:    "issue without title",
			plan:    Plan{Issues: []Issue{{Body: "x"}}},
			wantErr: "issue 0 has no title",
		},
		{
			name:    "issue references unknown milestone",
			plan:    Plan{Issues: []Issue{{Title: "Do it", Milestone: "v9"}}},
			wantErr: `unknown milestone "v9"`,
		},
		{
			name:    "issue references unknown label",
			plan:    Plan{Issues: []Issue{{Title: "Do it", Labels: []string{"nope"}}}},
			wantErr: `unknown label "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
