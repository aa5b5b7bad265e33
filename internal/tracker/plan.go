// Package tracker automates GitHub project bookkeeping for the analysis:
// labels, milestones, and issues are declared in a YAML plan and created
// in the repository if missing.
package tracker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Label declares a repository label.
type Label struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
}

// Milestone declares a repository milestone.
type Milestone struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DueOn       string `yaml:"due_on"` // RFC 3339, optional
}

// Issue declares an issue to open.
type Issue struct {
	Title     string   `yaml:"title"`
	Body      string   `yaml:"body"`
	Labels    []string `yaml:"labels"`
	Milestone string   `yaml:"milestone"` // matched by title
}

// Plan is the full declaration loaded from a plan file.
type Plan struct {
	Labels     []Label     `yaml:"labels"`
	Milestones []Milestone `yaml:"milestones"`
	Issues     []Issue     `yaml:"issues"`
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the plan for internal consistency.
func (p *Plan) Validate() error {
	for i, l := range p.Labels {
		if l.Name == "" {
			return fmt.Errorf("plan: label %d has no name", i)
		}
	}

	milestones := make(map[string]bool)
	for i, m := range p.Milestones {
		if m.Title == "" {
			return fmt.Errorf("plan: milestone %d has no title", i)
		}
		milestones[m.Title] = true
	}

	labels := make(map[string]bool)
	for _, l := range p.Labels {
		labels[l.Name] = true
	}

	for i, issue := range p.Issues {
		if issue.Title == "" {
			return fmt.Errorf("plan: issue %d has no title", i)
		}
		if issue.Milestone != "" && !milestones[issue.Milestone] {
			return fmt.Errorf("plan: issue %q references unknown milestone %q", issue.Title, issue.Milestone)
		}
		for _, l := range issue.Labels {
			if !labels[l] {
				return fmt.Errorf("plan: issue %q references unknown label %q", issue.Title, l)
			}
		}
	}
	return nil
}
