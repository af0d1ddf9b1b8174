package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/backend"
	"github.com/spec-kit/staff-policy-service/internal/domain"
)

// Coordinator owns the client-visible policy collection, keyed by staff
// identifier. Every record it holds is either confirmed by the backend or
// provisional and tied to an in-flight submission batch; no settled code
// path leaves a provisional record behind.
type Coordinator struct {
	mu       sync.Mutex
	be       backend.Backend
	notifier Notifier
	confirm  ConfirmFunc
	logger   *zap.Logger

	policies map[string][]Record
	batches  map[string]*pendingBatch

	now       func() time.Time
	newTempID func() string
}

// CoordinatorConfig bundles dependencies for construction.
type CoordinatorConfig struct {
	Backend  backend.Backend
	Notifier Notifier
	Confirm  ConfirmFunc
	Logger   *zap.Logger
}

// NewCoordinator constructs a coordinator with an empty collection. When no
// ConfirmFunc is supplied, destructive prompts default to declined.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		be:        cfg.Backend,
		notifier:  cfg.Notifier,
		confirm:   cfg.Confirm,
		logger:    cfg.Logger,
		policies:  make(map[string][]Record),
		batches:   make(map[string]*pendingBatch),
		now:       time.Now,
		newTempID: uuid.NewString,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Outcome) {})
	}
	if c.confirm == nil {
		c.confirm = func(string) bool { return false }
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Submission is the handle returned by SubmitPolicies. Done delivers the
// final outcome once the remote call settles.
type Submission struct {
	BatchID string
	Done    <-chan Outcome
}

// Policies returns a snapshot of the records held for one staff member.
func (c *Coordinator) Policies(staffID string) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.policies[staffID]...)
}

// Snapshot returns a copy of the whole mapping.
func (c *Coordinator) Snapshot() map[string][]Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]Record, len(c.policies))
	for staffID, records := range c.policies {
		out[staffID] = append([]Record(nil), records...)
	}
	return out
}

// SubmitPolicies applies the batch locally, returns immediately, and commits
// remotely in the background. On success the provisional records are
// replaced with the server's authoritative rows; on failure they are removed
// by set difference, leaving previously confirmed records untouched. Inputs
// with an empty policy number are dropped; a batch with none left is
// rejected before any state changes.
func (c *Coordinator) SubmitPolicies(ctx context.Context, staff StaffInfo, inputs []PolicyInput) (*Submission, error) {
	valid := make([]PolicyInput, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.PolicyNo) != "" {
			valid = append(valid, in)
		}
	}
	if len(valid) == 0 {
		c.notifier.Notify(Outcome{Kind: OutcomeValidationFailed, Message: "at least one policy number is required"})
		return nil, errors.New("at least one policy number is required")
	}

	now := c.now()
	b := &pendingBatch{
		id:      c.newTempID(),
		staffID: staff.ID,
		tempIDs: make(map[string]struct{}, len(valid)),
	}
	payload := make([]domain.PolicyRecord, 0, len(valid))
	provisional := make([]Record, 0, len(valid))
	for _, in := range valid {
		rec := domain.PolicyRecord{
			StaffID:          staff.ID,
			StaffName:        staff.Name,
			StaffDept:        staff.Dept,
			StaffDesignation: staff.Designation,
			StaffType:        staff.Type,
			PolicyNo:         strings.ToUpper(strings.TrimSpace(in.PolicyNo)),
			PremiumAmount:    parsePremium(in.PremiumAmount),
			MaturityDate:     optionalDate(in.MaturityDate),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		payload = append(payload, rec)

		tempID := c.newTempID()
		b.tempIDs[tempID] = struct{}{}
		provisional = append(provisional, Record{PolicyRecord: rec, tempID: tempID})
	}

	c.mu.Lock()
	c.policies[staff.ID] = append(c.policies[staff.ID], provisional...)
	c.batches[b.id] = b
	c.mu.Unlock()

	// The optimistic step: the caller sees the new records before any
	// network interaction happens.
	c.notifier.Notify(Outcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("saved %d policy(ies)", len(payload)),
	})

	done := make(chan Outcome, 1)
	go func() {
		done <- c.settleBatch(ctx, b, payload)
	}()

	return &Submission{BatchID: b.id, Done: done}, nil
}

func (c *Coordinator) settleBatch(ctx context.Context, b *pendingBatch, payload []domain.PolicyRecord) Outcome {
	res := c.be.Create(ctx, payload)

	c.mu.Lock()
	if b.state != batchPending {
		c.mu.Unlock()
		return Outcome{Kind: OutcomeValidationFailed, Message: "batch already settled"}
	}
	delete(c.batches, b.id)

	if res.OK {
		c.removeProvisionalLocked(b)
		confirmed := make([]Record, 0, len(res.Records))
		for _, rec := range res.Records {
			confirmed = append(confirmed, Record{PolicyRecord: rec})
		}
		c.policies[b.staffID] = append(c.policies[b.staffID], confirmed...)
		b.state = batchCommitted
		c.mu.Unlock()
		return Outcome{Kind: OutcomeSuccess, Message: fmt.Sprintf("confirmed %d policy(ies)", len(confirmed))}
	}

	c.removeProvisionalLocked(b)
	b.state = batchRolledBack
	c.mu.Unlock()

	c.logger.Warn("submission rolled back",
		zap.String("staff_id", b.staffID), zap.String("reason", res.Err))
	outcome := Outcome{Kind: OutcomeRemoteFailure, Message: res.Err}
	c.notifier.Notify(outcome)
	return outcome
}

// removeProvisionalLocked removes exactly the batch's provisional records;
// confirmed records are never touched.
func (c *Coordinator) removeProvisionalLocked(b *pendingBatch) {
	kept := c.policies[b.staffID][:0]
	for _, rec := range c.policies[b.staffID] {
		if _, mine := b.tempIDs[rec.tempID]; mine && rec.Provisional() {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == 0 {
		delete(c.policies, b.staffID)
	} else {
		c.policies[b.staffID] = kept
	}
}

// UpdatePolicy is not optimistic: local state changes only after the backend
// confirms, and a failure leaves it untouched.
func (c *Coordinator) UpdatePolicy(ctx context.Context, policyID int64, input PolicyInput) error {
	policyNo := strings.ToUpper(strings.TrimSpace(input.PolicyNo))
	if policyNo == "" {
		c.notifier.Notify(Outcome{Kind: OutcomeValidationFailed, Message: "policy number is required"})
		return errors.New("policy number is required")
	}

	res := c.be.Update(ctx, policyID, domain.PolicyUpdate{
		PolicyNo:      policyNo,
		PremiumAmount: parsePremium(input.PremiumAmount),
		MaturityDate:  optionalDate(input.MaturityDate),
	})
	if !res.OK {
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: res.Err})
		return errors.New(res.Err)
	}
	if len(res.Records) == 0 {
		// A lax server can answer success without echoing the row; without
		// it the local replace has nothing authoritative to apply.
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: "backend returned no record"})
		return errors.New("backend returned no record")
	}

	updated := res.Records[0]
	c.mu.Lock()
	records := c.policies[updated.StaffID]
	for i := range records {
		if !records[i].Provisional() && records[i].ID == updated.ID {
			records[i] = Record{PolicyRecord: updated}
			break
		}
	}
	c.mu.Unlock()

	c.notifier.Notify(Outcome{Kind: OutcomeSuccess, Message: "policy updated"})
	return nil
}

// DeletePolicy asks the caller for confirmation, then removes the record
// only after the backend confirms. When the deletion empties a staff
// member's list, the staff key is dropped entirely.
func (c *Coordinator) DeletePolicy(ctx context.Context, policyID int64) error {
	c.mu.Lock()
	var target *Record
	var staffID string
	for sid, records := range c.policies {
		for i := range records {
			if !records[i].Provisional() && records[i].ID == policyID {
				target = &records[i]
				staffID = sid
				break
			}
		}
		if target != nil {
			break
		}
	}
	c.mu.Unlock()

	if target == nil {
		c.notifier.Notify(Outcome{Kind: OutcomeValidationFailed, Message: "policy not found"})
		return errors.New("policy not found")
	}
	if !c.confirm(fmt.Sprintf("delete policy %q?", target.PolicyNo)) {
		return nil
	}

	res := c.be.Delete(ctx, policyID)
	if !res.OK {
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: res.Err})
		return errors.New(res.Err)
	}

	c.mu.Lock()
	kept := c.policies[staffID][:0]
	for _, rec := range c.policies[staffID] {
		if !rec.Provisional() && rec.ID == policyID {
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == 0 {
		delete(c.policies, staffID)
	} else {
		c.policies[staffID] = kept
	}
	c.mu.Unlock()

	c.notifier.Notify(Outcome{Kind: OutcomeSuccess, Message: "policy deleted"})
	return nil
}

// ReconcileFromBackend replaces the whole mapping with the backend's
// authoritative view, re-grouped by staff identifier. Used at startup and
// after bulk operations.
func (c *Coordinator) ReconcileFromBackend(ctx context.Context) error {
	res := c.be.List(ctx)
	if !res.OK {
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: res.Err})
		return errors.New(res.Err)
	}

	grouped := make(map[string][]Record)
	for _, rec := range res.Records {
		grouped[rec.StaffID] = append(grouped[rec.StaffID], Record{PolicyRecord: rec})
	}

	c.mu.Lock()
	c.policies = grouped
	c.mu.Unlock()
	return nil
}

// BulkDelete wipes every record after the backend validates the credential.
// A wrong password surfaces as a distinct invalid-credential outcome.
func (c *Coordinator) BulkDelete(ctx context.Context, password string) error {
	res := c.be.BulkDelete(ctx, password)
	if !res.OK {
		kind := OutcomeRemoteFailure
		if res.Code == "UNAUTHORIZED" {
			kind = OutcomeInvalidCredential
		}
		c.notifier.Notify(Outcome{Kind: kind, Message: res.Err})
		return errors.New(res.Err)
	}

	c.mu.Lock()
	c.policies = make(map[string][]Record)
	c.mu.Unlock()

	c.notifier.Notify(Outcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("deleted %d record(s)", res.Count),
	})
	return nil
}

// Backup fetches a full snapshot from the backend.
func (c *Coordinator) Backup(ctx context.Context) (*domain.Backup, error) {
	res := c.be.Backup(ctx)
	if !res.OK {
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: res.Err})
		return nil, errors.New(res.Err)
	}
	c.notifier.Notify(Outcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("backup created with %d record(s)", res.Backup.RecordCount),
	})
	return res.Backup, nil
}

// Restore atomically replaces all persisted records with the backup's data
// and reconciles the local mapping with the result.
func (c *Coordinator) Restore(ctx context.Context, b *domain.Backup) error {
	if b == nil || b.Data == nil {
		c.notifier.Notify(Outcome{Kind: OutcomeValidationFailed, Message: "invalid backup file format"})
		return errors.New("invalid backup file format")
	}

	res := c.be.BulkReplace(ctx, b.Data)
	if !res.OK {
		c.notifier.Notify(Outcome{Kind: OutcomeRemoteFailure, Message: res.Err})
		return errors.New(res.Err)
	}

	if err := c.ReconcileFromBackend(ctx); err != nil {
		return err
	}
	c.notifier.Notify(Outcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("restored %d record(s)", len(b.Data)),
	})
	return nil
}

// Reset clears all session state, used on logout.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies = make(map[string][]Record)
	c.batches = make(map[string]*pendingBatch)
}

// parsePremium parses the raw premium text. Unparseable or negative values
// fall back to zero, matching the long-standing entry-form behavior.
func parsePremium(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func optionalDate(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
