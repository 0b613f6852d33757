package sitesmith

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation minimums, matching the service's own limits.
const (
	MinDescriptionLen = 10
	MinEditRequestLen = 5
)

// GenerateRequest carries one generation call. ThreadID and Messages are
// empty on the first call of a job and echo the preserved conversation
// context on follow-up calls.
type GenerateRequest struct {
	Description string
	Template    string // optional template HTML reference
	ThreadID    string
	Messages    []Message
}

// Validate checks caller input before any network call is made.
func (r GenerateRequest) Validate() error {
	desc := strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(desc) < MinDescriptionLen {
		return fmt.Errorf("description must be at least %d characters: %w", MinDescriptionLen, ErrValidation)
	}
	return nil
}

// UpdateRequest carries one edit instruction against the current artifact.
// When FolderPath is set the server persists the change as part of the
// same call; see edit.Session.Propose for the client-side consequences.
type UpdateRequest struct {
	Pages       map[string]Page
	GlobalCSS   string
	EditRequest string
	FolderPath  string
}

// Validate checks caller input before any network call is made.
func (r UpdateRequest) Validate() error {
	instr := strings.TrimSpace(r.EditRequest)
	if utf8.RuneCountInString(instr) < MinEditRequestLen {
		return fmt.Errorf("edit request must be at least %d characters: %w", MinEditRequestLen, ErrValidation)
	}
	if len(r.Pages) == 0 {
		return fmt.Errorf("no pages to update: %w", ErrValidation)
	}
	return nil
}

// UpdateResult is the server's proposed edit: the changed pages (possibly
// none), an optional replacement global stylesheet, and a human-readable
// summary. Held as the pending update until committed or discarded.
type UpdateResult struct {
	UpdatedPages     map[string]Page `json:"updatedPages"`
	UpdatedGlobalCSS *string         `json:"updatedGlobalCss"`
	ChangesSummary   string          `json:"changesSummary"`
}
