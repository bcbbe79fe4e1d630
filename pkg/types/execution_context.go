package types

import "time"

// StepStatus tracks one step through the interpreter's state machine:
// Pending -> Running -> {Succeeded, Failed, Skipped}.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// PatchStatus is the aggregated outcome of one patch run.
type PatchStatus string

const (
	// PatchSucceeded means every step reached Succeeded or Skipped.
	PatchSucceeded PatchStatus = "succeeded"

	// PatchFailed means a step failed; the remaining steps of the patch
	// were not run.
	PatchFailed PatchStatus = "failed"

	// PatchSkipped means the patch never ran, either because it is not
	// compatible with the detected board or because the operator declined.
	PatchSkipped PatchStatus = "skipped"
)

// ExecutionContext carries the per-run state the interpreter needs. It is
// owned by the engine for the duration of one patch's processing and never
// shared across patches.
type ExecutionContext struct {
	// Board is the normalized device identifier, or BoardUnknown.
	Board string

	// Mode selects validate, dry-run or live execution.
	Mode Mode

	// Interactive reports whether an operator can answer prompts. When
	// false the engine substitutes default answers and never calls UI.
	Interactive bool

	// UI is the presentation-layer collaborator for alerts and
	// confirmations. May be nil when Interactive is false.
	UI UI
}

// Confirm routes a confirmation through the UI in interactive runs and
// returns the default answer otherwise.
func (ec *ExecutionContext) Confirm(message string, def bool) bool {
	if !ec.Interactive || ec.UI == nil {
		return def
	}
	return ec.UI.Confirm(message, def)
}

// Notify routes an informational message through the UI in interactive
// runs. Non-interactive runs rely on the log alone.
func (ec *ExecutionContext) Notify(message string) {
	if !ec.Interactive || ec.UI == nil {
		return
	}
	ec.UI.Notify(message)
}

// StepResult records the outcome of a single step.
type StepResult struct {
	Kind     StepKind
	Label    string
	Status   StepStatus
	Message  string
	Err      error
	Duration time.Duration
}

// PatchResult aggregates one patch's run.
type PatchResult struct {
	Patch   *Patch
	Status  PatchStatus
	Steps   []StepResult
	Message string

	// Terminal is set when a reboot was issued (or would have been, in a
	// live run): nothing after this patch is reachable.
	Terminal bool

	StartTime time.Time
	EndTime   time.Time
}

// OK reports whether the patch counts as successful. Skipped patches are
// not failures.
func (pr *PatchResult) OK() bool {
	return pr.Status != PatchFailed
}

// AddStep appends a step result.
func (pr *PatchResult) AddStep(sr StepResult) {
	pr.Steps = append(pr.Steps, sr)
}

// Complete stamps the end time and derives the aggregate status from the
// recorded steps, unless a status was already decided.
func (pr *PatchResult) Complete() {
	pr.EndTime = time.Now()
	if pr.Status != "" {
		return
	}
	for _, sr := range pr.Steps {
		if sr.Status == StepFailed {
			pr.Status = PatchFailed
			return
		}
	}
	pr.Status = PatchSucceeded
}

// BatchResult aggregates a whole recipe run.
type BatchResult struct {
	Patches []*PatchResult

	// OK reflects the result of the last patch processed. This mirrors the
	// historical behavior of the tool; see the design notes.
	OK bool

	// Message is the per-patch messages joined with newlines.
	Message string
}
