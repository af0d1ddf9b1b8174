package client

import "github.com/spec-kit/staff-policy-service/internal/domain"

// Record wraps a PolicyRecord with client-side provenance. A non-empty
// tempID marks the record as provisional: locally applied, not yet
// confirmed by the backend.
type Record struct {
	domain.PolicyRecord
	tempID string
}

// Provisional reports whether the record is still awaiting confirmation.
func (r Record) Provisional() bool {
	return r.tempID != ""
}

// OutcomeKind classifies operation outcomes surfaced to the caller.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeValidationFailed
	OutcomeRemoteFailure
	OutcomeInvalidCredential
)

// Outcome is the transient notification every settled operation produces.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Notifier receives operation outcomes, typically to render a toast.
type Notifier interface {
	Notify(Outcome)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Outcome)

func (f NotifierFunc) Notify(o Outcome) { f(o) }

// ConfirmFunc supplies the caller's decision for destructive prompts.
// The coordinator asks; it never decides on its own.
type ConfirmFunc func(prompt string) bool

// PolicyInput is one policy as entered by the administrator. PremiumAmount
// arrives as raw text; values that do not parse as a non-negative number
// fall back to zero.
type PolicyInput struct {
	PolicyNo      string
	PremiumAmount string
	MaturityDate  string
}

// StaffInfo identifies the staff member a submission attaches to, with the
// display fields denormalized onto each created record.
type StaffInfo struct {
	ID          string
	Name        string
	Dept        string
	Designation string
	Type        domain.StaffType
}

type batchState int

const (
	batchPending batchState = iota
	batchCommitted
	batchRolledBack
)

// pendingBatch tracks one in-flight submission. All records in the batch
// share a single outcome: committed together or rolled back together.
type pendingBatch struct {
	id      string
	staffID string
	tempIDs map[string]struct{}
	state   batchState
}
