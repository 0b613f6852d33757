package sitesmith

// Status is the lifecycle tag on a stream record.
type Status string

const (
	StatusInProgress       Status = "in_progress"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
	StatusAwaitingInput    Status = "awaiting_input"
	StatusAwaitingApproval Status = "awaiting_approval"
)

// StreamEvent is one decoded record from the generation stream. Events are
// purely semantic: transport and framing errors come from the stream's
// Next() error return, never from events.
//
// The two awaiting statuses are mutually exclusive interrupt tags. They
// appear instead of a step's normal lifecycle and always carry an updated
// ThreadID and transcript so the job can resume precisely.
type StreamEvent struct {
	Step    Step   `json:"step,omitempty"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`

	// Data carries the generated artifact on the terminal
	// complete/completed record.
	Data *Artifact `json:"data,omitempty"`

	// Interrupt payload.
	Ready        *bool         `json:"ready,omitempty"`
	Questions    []string      `json:"questions,omitempty"`
	Plan         string        `json:"plan,omitempty"`
	DesignSystem string        `json:"designSystem,omitempty"`
	ThreadID     string        `json:"threadId,omitempty"`
	Messages     []WireMessage `json:"messages,omitempty"`
}

// Interrupt reports whether the event pauses the pipeline and requires a
// follow-up call to continue.
func (e StreamEvent) Interrupt() bool {
	return e.Status == StatusAwaitingInput || e.Status == StatusAwaitingApproval
}

// Failed reports whether the server marked the pipeline as failed.
func (e StreamEvent) Failed() bool {
	return e.Status == StatusFailed
}

// Completed reports whether the event is the terminal success record.
func (e StreamEvent) Completed() bool {
	return e.Step == StepComplete && e.Status == StatusCompleted
}

// FailureMessage returns the most specific failure text available for
// display.
func (e StreamEvent) FailureMessage() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "generation failed"
}
