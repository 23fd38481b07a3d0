// Package orchestrator drives the one-at-a-time generation lifecycle
// against the model endpoint and forwards results to the notifier.
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kayz/motion/internal/logger"
	"github.com/kayz/motion/internal/prompt"
)

// State is the user-visible generation state.
type State int

// Lifecycle states. Completed and Failed return to Idle only via Reset.
const (
	StateIdle State = iota
	StateGenerating
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Generator produces a model reply for a compiled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Notifier receives successful results.
type Notifier interface {
	EnsureAuthorizedAndScheduleRecurring(text string) error
	SendImmediate(text, title string) string
}

// Status is an atomic view of the orchestrator's user-visible state.
type Status struct {
	State   State
	Result  string
	Message string
}

// Orchestrator serializes user-triggered generations and exposes the
// independent generate-and-notify path used by the hourly trigger.
type Orchestrator struct {
	client   Generator
	notifier Notifier

	// notificationsEnabled is read at completion time so a toggle made
	// mid-generation takes effect.
	notificationsEnabled func() bool

	mu      sync.Mutex
	state   State
	result  string
	message string
	done    chan struct{}
}

// New creates an orchestrator. notifier may be nil; enabled may be nil
// (treated as always off).
func New(client Generator, notifier Notifier, enabled func() bool) *Orchestrator {
	if enabled == nil {
		enabled = func() bool { return false }
	}
	closed := make(chan struct{})
	close(closed)
	return &Orchestrator{
		client:               client,
		notifier:             notifier,
		notificationsEnabled: enabled,
		state:                StateIdle,
		done:                 closed,
	}
}

// Status returns the current state, result and error message.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{State: o.state, Result: o.result, Message: o.message}
}

// Submit starts a generation for the given inputs. It returns false
// without side effects when a generation is already in flight or when
// instruction, context and data are all empty after trimming.
func (o *Orchestrator) Submit(ctx context.Context, in prompt.Inputs) bool {
	if !submittable(in) {
		return false
	}

	o.mu.Lock()
	if o.state == StateGenerating {
		o.mu.Unlock()
		return false
	}
	o.state = StateGenerating
	o.result = ""
	o.message = ""
	done := make(chan struct{})
	o.done = done
	o.mu.Unlock()

	go o.run(ctx, in, done)
	return true
}

// submittable implements the guard: any non-empty input allows a
// submission.
func submittable(in prompt.Inputs) bool {
	return strings.TrimSpace(in.Instruction) != "" ||
		strings.TrimSpace(in.Context) != "" ||
		strings.TrimSpace(in.Data) != ""
}

func (o *Orchestrator) run(ctx context.Context, in prompt.Inputs, done chan struct{}) {
	defer close(done)

	compiled := prompt.Compile(in, time.Now(), prompt.Region())
	text, err := o.client.Generate(ctx, compiled)

	o.mu.Lock()
	if err != nil {
		o.message = err.Error()
		o.result = ""
		o.state = StateFailed
	} else {
		o.result = text
		o.message = ""
		o.state = StateCompleted
	}
	o.mu.Unlock()

	if err == nil && o.notifier != nil && o.notificationsEnabled() {
		if nerr := o.notifier.EnsureAuthorizedAndScheduleRecurring(text); nerr != nil {
			logger.Warn("failed to schedule recurring notification: %v", nerr)
		}
	}
}

// Wait blocks until the in-flight generation (if any) finishes or ctx
// is cancelled.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset returns from Completed or Failed to Idle, clearing the result
// and error. It is a no-op while Generating or already Idle.
func (o *Orchestrator) Reset() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateCompleted && o.state != StateFailed {
		return false
	}
	o.state = StateIdle
	o.result = ""
	o.message = ""
	return true
}

// GenerateAndNotify runs the identical compile+call sequence
// synchronously and, on success, fires an immediate one-shot
// notification in addition to any recurring schedule. It does not touch
// the lifecycle state, so it may run while a user submission is in
// flight; writes to the shared result/error fields are last-write-wins.
func (o *Orchestrator) GenerateAndNotify(ctx context.Context, in prompt.Inputs, title string) (string, error) {
	compiled := prompt.Compile(in, time.Now(), prompt.Region())
	text, err := o.client.Generate(ctx, compiled)

	o.mu.Lock()
	if err != nil {
		o.message = err.Error()
	} else {
		o.result = text
	}
	o.mu.Unlock()

	if err != nil {
		return "", err
	}

	if o.notifier != nil {
		o.notifier.SendImmediate(text, title)
		if o.notificationsEnabled() {
			if nerr := o.notifier.EnsureAuthorizedAndScheduleRecurring(text); nerr != nil {
				logger.Warn("failed to schedule recurring notification: %v", nerr)
			}
		}
	}
	return text, nil
}
