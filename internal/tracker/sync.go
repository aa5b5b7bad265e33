package tracker

import (
	"context"
	"fmt"
)

// Action records one thing the sync did (or would do, in dry-run mode).
type Action struct {
	Kind string // "label", "milestone", "issue"
	Name string
}

// Result summarizes a sync.
type Result struct {
	Created []Action
	Skipped []Action
}

// Sync creates every plan item that does not already exist in the
// repository. Existing items are matched by name or title and left
// untouched. With dryRun set, nothing is created and the result reports
// what would have been.
func Sync(ctx context.Context, c *Client, plan *Plan, dryRun bool) (*Result, error) {
	res := &Result{}

	existingLabels, err := c.ListLabelNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	for _, l := range plan.Labels {
		if existingLabels[l.Name] {
			res.Skipped = append(res.Skipped, Action{Kind: "label", Name: l.Name})
			continue
		}
		if !dryRun {
			if err := c.CreateLabel(ctx, l); err != nil {
				return nil, fmt.Errorf("failed to create label %q: %w", l.Name, err)
			}
		}
		res.Created = append(res.Created, Action{Kind: "label", Name: l.Name})
	}

	milestoneNumbers, err := c.ListMilestones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	for _, m := range plan.Milestones {
		if _, ok := milestoneNumbers[m.Title]; ok {
			res.Skipped = append(res.Skipped, Action{Kind: "milestone", Name: m.Title})
			continue
		}
		if !dryRun {
			number, err := c.CreateMilestone(ctx, m)
			if err != nil {
				return nil, fmt.Errorf("failed to create milestone %q: %w", m.Title, err)
			}
			milestoneNumbers[m.Title] = number
		}
		res.Created = append(res.Created, Action{Kind: "milestone", Name: m.Title})
	}

	existingIssues, err := c.ListIssueTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	for _, issue := range plan.Issues {
		if existingIssues[issue.Title] {
			res.Skipped = append(res.Skipped, Action{Kind: "issue", Name: issue.Title})
			continue
		}
		if !dryRun {
			if err := c.CreateIssue(ctx, issue, milestoneNumbers[issue.Milestone]); err != nil {
				return nil, fmt.Errorf("failed to create issue %q: %w", issue.Title, err)
			}
		}
		res.Created = append(res.Created, Action{Kind: "issue", Name: issue.Title})
	}

	return res, nil
}
