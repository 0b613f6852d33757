// Package pipeline drives one logical generation job: it opens the event
// stream, tracks pipeline state, hands interrupts back to the caller, and
// installs the finished artifact.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/sitesmith/sitesmith"
	"github.com/sitesmith/sitesmith/progress"
)

// State is the orchestrator's position in the job lifecycle.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateAwaitingClarification
	StateAwaitingApproval
	StateComplete
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:                  "idle",
	StateGenerating:            "generating",
	StateAwaitingClarification: "awaiting_clarification",
	StateAwaitingApproval:      "awaiting_approval",
	StateComplete:              "complete",
	StateFailed:                "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// GenerationError is a pipeline run that ended without a completed
// artifact: a server-reported failure, a mid-stream transport error, or a
// stream that ended before the complete record.
type GenerationError struct {
	Step    sitesmith.Step
	Message string
}

func (e *GenerationError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("pipeline: generation failed at %s: %s", e.Step, e.Message)
	}
	return fmt.Sprintf("pipeline: generation failed: %s", e.Message)
}

// StageHandler observes stage transitions. message is the event's
// human-readable status text, possibly empty.
type StageHandler func(stage sitesmith.Stage, status sitesmith.Status, message string)

// Outcome is the result of one Start or Resume call that did not error:
// either the terminal Complete state, or an interrupt carrying the
// payload the caller must answer before resuming.
type Outcome struct {
	State        State
	Questions    []string // set for StateAwaitingClarification
	Plan         string   // set for StateAwaitingApproval
	DesignSystem string   // set for StateAwaitingApproval
}

// Orchestrator is the client-side pipeline state machine. At most one
// generation may be in flight per instance; a Start or Resume while
// generating fails with sitesmith.ErrBusy.
type Orchestrator struct {
	svc       sitesmith.Service
	store     *sitesmith.Store
	templates sitesmith.TemplateSource
	editor    sitesmith.VisualEditor
	logger    *zap.Logger
	animator  *progress.Animator
	onStage   StageHandler

	mu          sync.Mutex
	state       State
	thread      sitesmith.Thread
	description string
	generating  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTemplateSource attaches an optional template collaborator; when it
// has a selection, the template HTML rides along on generation requests.
func WithTemplateSource(ts sitesmith.TemplateSource) Option {
	return func(o *Orchestrator) { o.templates = ts }
}

// WithVisualEditor attaches the visual editor collaborator; it is loaded
// with the generated home page when a run completes.
func WithVisualEditor(e sitesmith.VisualEditor) Option {
	return func(o *Orchestrator) { o.editor = e }
}

// WithStageHandler subscribes to stage transitions.
func WithStageHandler(h StageHandler) Option {
	return func(o *Orchestrator) { o.onStage = h }
}

// WithProgressHandler subscribes to smoothed display-progress values.
func WithProgressHandler(h func(float64)) Option {
	return func(o *Orchestrator) { o.animator = progress.New(h) }
}

// New creates an Orchestrator writing completed artifacts into store.
func New(svc sitesmith.Service, store *sitesmith.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		svc:    svc,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.animator == nil {
		o.animator = progress.New(nil)
	}
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Thread returns a copy of the current conversation context.
func (o *Orchestrator) Thread() sitesmith.Thread {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.thread.Clone()
}

// Animator exposes the progress animator so the caller can drive its
// ticking (typically progress.Animator.Run in a goroutine).
func (o *Orchestrator) Animator() *progress.Animator {
	return o.animator
}

// Start begins a generation call. With followUp false it starts a fresh
// job, resetting the conversation context; with followUp true it re-enters
// the same logical job, reusing the preserved thread ID and transcript.
// It blocks until the stream ends: on an interrupt it returns the awaiting
// Outcome, on the terminal record it installs the artifact and returns a
// Complete Outcome, and on failure it returns a *GenerationError. Context
// cancellation aborts the read loop and returns the context error with
// the machine back in Idle, so a retry is an ordinary new Start.
func (o *Orchestrator) Start(ctx context.Context, description string, followUp bool) (Outcome, error) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return Outcome{}, sitesmith.ErrBusy
	}
	if !followUp {
		o.thread.Reset()
		o.animator.Reset()
	}
	req := sitesmith.GenerateRequest{
		Description: description,
		ThreadID:    o.thread.ID,
		Messages:    o.thread.Clone().Messages,
	}
	if o.templates != nil && o.templates.HasSelectedTemplate() {
		req.Template = o.templates.SelectedTemplateHTML()
	}
	if err := req.Validate(); err != nil {
		o.mu.Unlock()
		return Outcome{}, err
	}
	o.generating = true
	o.state = StateGenerating
	o.description = description
	o.mu.Unlock()

	return o.run(ctx, req)
}

// Resume continues a job paused on an interrupt. The answer is the
// clarification response or the approval decision ("Approve" or revision
// feedback); structurally the two are identical. Exactly one user message
// is appended before the follow-up call.
func (o *Orchestrator) Resume(ctx context.Context, answer string) (Outcome, error) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return Outcome{}, sitesmith.ErrBusy
	}
	if o.state != StateAwaitingClarification && o.state != StateAwaitingApproval {
		o.mu.Unlock()
		return Outcome{}, fmt.Errorf("pipeline: nothing to resume in state %s: %w", o.state, sitesmith.ErrValidation)
	}
	o.thread.AppendUser(answer)
	description := o.description
	o.mu.Unlock()

	return o.Start(ctx, description, true)
}

func (o *Orchestrator) run(ctx context.Context, req sitesmith.GenerateRequest) (Outcome, error) {
	stream, err := o.svc.Generate(ctx, req)
	if err != nil {
		// Connection failure before streaming: the pipeline is unchanged.
		o.finish(StateIdle)
		return Outcome{}, err
	}
	defer stream.Close()

	var lastStep sitesmith.Step
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				// Abandoned, not failed: a retry is a new Start.
				o.finish(StateIdle)
				return Outcome{}, ctx.Err()
			}
			o.logger.Error("stream read failed", zap.Error(err), zap.String("step", string(lastStep)))
			o.finish(StateFailed)
			return Outcome{}, &GenerationError{Step: lastStep, Message: err.Error()}
		}
		if evt.Step != "" {
			lastStep = evt.Step
		}

		switch {
		case evt.Failed():
			o.logger.Warn("server reported failure", zap.String("step", string(evt.Step)))
			o.finish(StateFailed)
			return Outcome{}, &GenerationError{Step: evt.Step, Message: evt.FailureMessage()}

		case evt.Interrupt():
			return o.interrupt(evt), nil

		case evt.Completed():
			return o.complete(ctx, evt)

		default:
			o.advance(evt)
		}
	}

	o.finish(StateFailed)
	return Outcome{}, &GenerationError{Step: lastStep, Message: "stream ended before completion"}
}

// interrupt records the interrupt payload's conversation context and
// pauses the job. The current stream ends here; a Resume call continues
// the same logical job.
func (o *Orchestrator) interrupt(evt sitesmith.StreamEvent) Outcome {
	o.mu.Lock()
	o.thread.Sync(evt.ThreadID, evt.Messages)
	o.mu.Unlock()

	st := StateAwaitingClarification
	if evt.Status == sitesmith.StatusAwaitingApproval {
		st = StateAwaitingApproval
	}
	o.logger.Info("pipeline interrupted",
		zap.String("status", string(evt.Status)),
		zap.String("thread_id", evt.ThreadID),
		zap.Int("questions", len(evt.Questions)))
	o.finish(st)
	return Outcome{
		State:        st,
		Questions:    evt.Questions,
		Plan:         evt.Plan,
		DesignSystem: evt.DesignSystem,
	}
}

func (o *Orchestrator) complete(ctx context.Context, evt sitesmith.StreamEvent) (Outcome, error) {
	if evt.Data == nil || len(evt.Data.Pages) == 0 {
		o.finish(StateFailed)
		return Outcome{}, &GenerationError{Step: evt.Step, Message: "complete record carried no artifact"}
	}
	o.store.Replace(*evt.Data)
	if o.editor != nil {
		if home, ok := evt.Data.Pages["home"]; ok {
			if err := o.editor.Initialize(ctx, home.HTML); err != nil {
				o.logger.Warn("editor initialization failed", zap.Error(err))
			}
		}
	}
	o.animator.SetTarget(100, true)
	if stage, ok := sitesmith.StageFor(evt.Step); ok && o.onStage != nil {
		o.onStage(stage, evt.Status, evt.Message)
	}

	o.mu.Lock()
	// The job is over; its conversation context is spent.
	o.thread.Reset()
	o.mu.Unlock()

	o.logger.Info("generation complete",
		zap.Int("pages", len(evt.Data.Pages)),
		zap.String("folder_path", evt.Data.FolderPath))
	o.finish(StateComplete)
	return Outcome{State: StateComplete}, nil
}

// advance moves the display progress for an ordinary lifecycle event.
func (o *Orchestrator) advance(evt sitesmith.StreamEvent) {
	stage, ok := sitesmith.StageFor(evt.Step)
	if !ok {
		o.logger.Debug("event for unknown step", zap.String("step", string(evt.Step)))
		return
	}
	target := stage.Start
	if evt.Status == sitesmith.StatusCompleted {
		target = stage.End
	}
	o.animator.SetTarget(target, false)
	if o.onStage != nil {
		o.onStage(stage, evt.Status, evt.Message)
	}
}

func (o *Orchestrator) finish(st State) {
	o.mu.Lock()
	o.generating = false
	o.state = st
	o.mu.Unlock()
}
