// Package bubbletea provides the terminal front end: it prompts for a
// site description, renders smoothed pipeline progress, surfaces
// clarification and approval interrupts, and drives the edit session's
// propose/commit flow.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sitesmith/sitesmith"
	"github.com/sitesmith/sitesmith/pipeline"
)

// ProgressMsg carries a smoothed display-progress value.
type ProgressMsg float64

// StageMsg carries a pipeline stage transition.
type StageMsg struct {
	Stage   sitesmith.Stage
	Status  sitesmith.Status
	Message string
}

// OutcomeMsg signals the end of a generation call.
type OutcomeMsg struct {
	Outcome pipeline.Outcome
	Err     error
}

// UpdateMsg signals the end of an edit proposal.
type UpdateMsg struct {
	Result sitesmith.UpdateResult
	Err    error
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
