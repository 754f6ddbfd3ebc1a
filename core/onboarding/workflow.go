package onboarding

import (
	"context"
	"fmt"
	"sync"
)

type (
	// Source fetches and persists a school's status record. It is the
	// engine's only collaborator: fetched once at construction, written once
	// on finalize. Step actions persist their own facts.
	Source interface {
		FetchStatus(ctx context.Context) (Status, error)
		PersistFinalize(ctx context.Context) error
	}

	// UnknownStepError reports a step id that is not in the registry.
	// Caller bug; not retryable.
	UnknownStepError struct {
		ID StepID
	}

	// StatusFetchError reports a failed status fetch at construction. The
	// workflow is still usable, starting from an all-false record.
	StatusFetchError struct {
		Err error
	}

	// FinalizeError reports a refused or failed finalization. Retryable is
	// false when the completion gate is closed (the UI should not have
	// offered the action) and true when the status source rejected the write.
	FinalizeError struct {
		Reason    string
		Retryable bool
		Err       error
	}
)

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown onboarding step %q", e.ID)
}

func (e *StatusFetchError) Error() string {
	return fmt.Sprintf("fetching onboarding status: %v", e.Err)
}

func (e *StatusFetchError) Unwrap() error { return e.Err }

func (e *FinalizeError) Error() string { return e.Reason }

func (e *FinalizeError) Unwrap() error { return e.Err }

// Workflow is the onboarding state machine for a single school: the status
// record plus a cursor over the step registry. Steps are freely navigable and
// independently completable; the cursor is a session convenience, never
// persisted. One state per step, plus the implicit terminal "finished" state
// entered when Finalize succeeds.
//
// A single mutex serializes all transitions: concurrent reporters (two tabs)
// resolve by last-write-wins merge, which is safe because flag merges are
// monotonic.
type Workflow struct {
	mu       sync.Mutex
	src      Source
	steps    []Step
	index    map[StepID]int
	status   Status
	cursor   int
	finished bool
	degraded bool
}

// NewWorkflow builds the engine for the given source. The status record is
// fetched once; if the fetch fails the workflow is still returned, degraded
// to an all-false record, alongside a *StatusFetchError the caller may
// surface as a warning.
func NewWorkflow(ctx context.Context, src Source) (*Workflow, error) {
	w := &Workflow{
		src:   src,
		steps: Steps(),
		index: make(map[StepID]int, len(steps)),
	}
	for i, s := range w.steps {
		w.index[s.ID] = i
	}

	st, err := src.FetchStatus(ctx)
	if err != nil {
		w.degraded = true
		w.status = Status{}.WithProgress()
		return w, &StatusFetchError{Err: err}
	}
	w.status = st.WithProgress()
	w.finished = w.status.OnboardingCompleted
	return w, nil
}

// Status returns a snapshot of the status record.
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Degraded reports whether the startup status fetch failed.
func (w *Workflow) Degraded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.degraded
}

// Finished reports whether the workflow reached the terminal state.
func (w *Workflow) Finished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

// ActiveStepID returns the step currently presented to the user, or
// StepFinished once finalized.
func (w *Workflow) ActiveStepID() StepID {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return StepFinished
	}
	return w.steps[w.cursor].ID
}

// StepComplete derives a step's completion from the status record. Unknown
// ids and opt-in steps report false.
func (w *Workflow) StepComplete(id StepID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, ok := w.index[id]
	if !ok {
		return false
	}
	return w.steps[i].Complete(w.status)
}

// CanFinalize evaluates the completion gate against the current record.
func (w *Workflow) CanFinalize() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CanCompleteOnboarding(w.status)
}

// Advance moves the cursor to the next step. At the last step it attempts to
// finalize instead (the "Finish" button). No-op once finished.
func (w *Workflow) Advance(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished {
		return nil
	}
	if w.cursor == len(w.steps)-1 {
		return w.finalize(ctx)
	}
	w.cursor++
	return nil
}

// Retreat moves the cursor to the previous step; no-op at the first step or
// once finished.
func (w *Workflow) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished || w.cursor == 0 {
		return
	}
	w.cursor--
}

// JumpTo moves the cursor directly to any registered step, regardless of the
// completion state of intervening steps: steps are optional or substitutable,
// so free navigation is allowed. An unknown id fails with *UnknownStepError
// and leaves the cursor unchanged.
func (w *Workflow) JumpTo(id StepID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, ok := w.index[id]
	if !ok {
		return &UnknownStepError{ID: id}
	}
	if w.finished {
		return nil
	}
	w.cursor = i
	return nil
}

// ReportStepCompletion is the operation step actions invoke after a backend
// call succeeds: the patch is merged into the status record, then the cursor
// behaves like Advance. Status is global, not scoped to the cursor: if the
// reported step is not the active one the patch still applies but the cursor
// stays put. An empty patch is a valid visit acknowledgment for opt-in steps.
func (w *Workflow) ReportStepCompletion(ctx context.Context, id StepID, patch Patch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, ok := w.index[id]
	if !ok {
		return &UnknownStepError{ID: id}
	}

	w.status = w.status.Merge(patch)

	if w.finished || i != w.cursor {
		return nil
	}
	if w.cursor == len(w.steps)-1 {
		return w.finalize(ctx)
	}
	w.cursor++
	return nil
}

// Finalize closes the workflow: gate permitting, the source persists
// onboarding_completed and the cursor enters the terminal state. On failure
// the cursor does not move, so the user stays on the last step to retry.
// Idempotent once finished.
func (w *Workflow) Finalize(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finalize(ctx)
}

// finalize must be called with w.mu held.
func (w *Workflow) finalize(ctx context.Context) error {
	if w.finished {
		return nil
	}
	if !CanCompleteOnboarding(w.status) {
		return &FinalizeError{Reason: "required onboarding steps are incomplete"}
	}
	if err := w.src.PersistFinalize(ctx); err != nil {
		return &FinalizeError{Reason: err.Error(), Retryable: true, Err: err}
	}
	w.status.OnboardingCompleted = true
	w.finished = true
	return nil
}

// StepState is a step definition joined with its live completion state,
// as presented to a wizard UI.
type StepState struct {
	Step
	Complete bool `json:"complete"`
	Active   bool `json:"active"`
}

// StepStates returns all steps with their completion and cursor state.
func (w *Workflow) StepStates() []StepState {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]StepState, 0, len(w.steps))
	for i, s := range w.steps {
		out = append(out, StepState{
			Step:     s,
			Complete: s.Complete(w.status),
			Active:   !w.finished && i == w.cursor,
		})
	}
	return out
}
