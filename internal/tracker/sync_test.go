package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory stand-in for the GitHub repository endpoints
// the sync uses.
type fakeRepo struct {
	labels     []string
	milestones map[string]int
	issues     []string

	createdLabels     []string
	createdMilestones []string
	createdIssues     []map[string]any
}

func (f *fakeRepo) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		switch {
		case strings.HasSuffix(r.URL.Path, "/labels") && r.Method == http.MethodGet:
			var out []map[string]string
			for _, name := range f.labels {
				out = append(out, map[string]string{"name": name})
			}
			_ = json.NewEncoder(w).Encode(out)

		case strings.HasSuffix(r.URL.Path, "/labels") && r.Method == http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.createdLabels = append(f.createdLabels, body["name"])
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{}`)

		case strings.HasSuffix(r.URL.Path, "/milestones") && r.Method == http.MethodGet:
			var out []map[string]any
			for title, number := range f.milestones {
				out = append(out, map[string]any{"title": title, "number": number})
			}
			_ = json.NewEncoder(w).Encode(out)

		case strings.HasSuffix(r.URL.Path, "/milestones") && r.Method == http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.createdMilestones = append(f.createdMilestones, body["title"])
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"number": %d, "title": %q}`, 100+len(f.createdMilestones), body["title"])

		case strings.HasSuffix(r.URL.Path, "/issues") && r.Method == http.MethodGet:
			var out []map[string]string
			for _, title := range f.issues {
				out = append(out, map[string]string{"title": title})
			}
			_ = json.NewEncoder(w).Encode(out)

		case strings.HasSuffix(r.URL.Path, "/issues") && r.Method == http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.createdIssues = append(f.createdIssues, body)
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{}`)

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestClient(t *testing.T, f *fakeRepo) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "barcelona-housing", "barrios", "test-token", slog.New(slog.DiscardHandler))
}

func testPlan() *Plan {
	return &Plan{
		Labels: []Label{
			{Name: "etl", Color: "1d76db"},
			{Name: "data-quality", Color: "d93f0b"},
		},
		Milestones: []Milestone{
			{Title: "v1: rental prices"},
		},
		Issues: []Issue{
			{Title: "Merge overlapping price datasets", Labels: []string{"etl"}, Milestone: "v1: rental prices"},
			{Title: "Backfill missing densities", Labels: []string{"data-quality"}},
		},
	}
}

func TestSync_CreatesMissing(t *testing.T) {
	f := &fakeRepo{milestones: map[string]int{}}
	c := newTestClient(t, f)

	res, err := Sync(context.Background(), c, testPlan(), false)
	require.NoError(t, err)

	assert.Len(t, res.Created, 5)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, []string{"etl", "data-quality"}, f.createdLabels)
	assert.Equal(t, []string{"v1: rental prices"}, f.createdMilestones)
	require.Len(t, f.createdIssues, 2)

	// The first issue picks up the number of the milestone created in the
	// same run.
	assert.Equal(t, float64(101), f.createdIssues[0]["milestone"])
	_, hasMilestone := f.createdIssues[1]["milestone"]
	assert.False(t, hasMilestone)
}

func TestSync_SkipsExisting(t *testing.T) {
	f := &fakeRepo{
		labels:     []string{"etl"},
		milestones: map[string]int{"v1: rental prices": 7},
		issues:     []string{"Merge overlapping price datasets"},
	}
	c := newTestClient(t, f)

	res, err := Sync(context.Background(), c, testPlan(), false)
	require.NoError(t, err)

	assert.Len(t, res.Created, 2) // data-quality label + second issue
	assert.Len(t, res.Skipped, 3)
	assert.Equal(t, []string{"data-quality"}, f.createdLabels)
	assert.Empty(t, f.createdMilestones)
	require.Len(t, f.createdIssues, 1)
	assert.Equal(t, "Backfill missing densities", f.createdIssues[0]["title"])
}

func TestSync_DryRun(t *testing.T) {
	f := &fakeRepo{
		labels:     []string{"etl"},
		milestones: map[string]int{},
	}
	c := newTestClient(t, f)

	res, err := Sync(context.Background(), c, testPlan(), true)
	require.NoError(t, err)

	assert.Len(t, res.Created, 4)
	assert.Len(t, res.Skipped, 1)
	assert.Empty(t, f.createdLabels)
	assert.Empty(t, f.createdMilestones)
	assert.Empty(t, f.createdIssues)
}

func TestSync_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "barcelona-housing", "barrios", "bad-token", slog.New(slog.DiscardHandler))

	_, err := Sync(context.Background(), c, testPlan(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list labels")
	assert.Contains(t, err.Error(), "Bad credentials")
}
