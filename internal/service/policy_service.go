package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/events"
	"github.com/spec-kit/staff-policy-service/internal/observability"
	"github.com/spec-kit/staff-policy-service/internal/persistence"
	"github.com/spec-kit/staff-policy-service/internal/repository"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

const (
	statsCacheKey = "policy:stats"
	statsCacheTTL = 60 * time.Second
)

// Credentials verifies the admin password for destructive operations.
type Credentials interface {
	VerifyAdminPassword(password string) bool
}

// PolicyService owns the policy table semantics: normalization, transactional
// bulk writes, backup/restore, and the password-guarded wipe.
type PolicyService struct {
	repo        repository.PolicyRepository
	dispatcher  events.Dispatcher
	cache       *persistence.Redis
	credentials Credentials
	metrics     *observability.Metrics
}

// PolicyDependencies encapsulates collaborators for the service.
type PolicyDependencies struct {
	Repo        repository.PolicyRepository
	Dispatcher  events.Dispatcher
	Cache       *persistence.Redis
	Credentials Credentials
	Metrics     *observability.Metrics
}

// NewPolicyService constructs the service.
func NewPolicyService(deps PolicyDependencies) *PolicyService {
	s := &PolicyService{
		repo:        deps.Repo,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		credentials: deps.Credentials,
		metrics:     deps.Metrics,
	}
	if s.dispatcher != nil {
		s.dispatcher.Subscribe(events.EventPolicyMutated, s.invalidateStats)
	}
	return s
}

// List returns every policy record ordered by staff name then recency.
func (s *PolicyService) List(ctx context.Context) ([]domain.PolicyRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListByStaff returns the records owned by one staff member.
func (s *PolicyService) ListByStaff(ctx context.Context, staffID string) ([]domain.PolicyRecord, error) {
	records, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// BulkCreate validates, normalizes and inserts a batch in one transaction.
// Either every record lands or none do.
func (s *PolicyService) BulkCreate(ctx context.Context, records []domain.PolicyRecord) ([]domain.PolicyRecord, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("policies array is required", nil)
	}
	for i := range records {
		rec := &records[i]
		rec.PolicyNo = strings.ToUpper(strings.TrimSpace(rec.PolicyNo))
		if rec.StaffID == "" || rec.StaffName == "" || rec.PolicyNo == "" {
			return nil, apperrors.NewValidationError(
				"staff_id, staff_name and policy_no are required", nil)
		}
		if rec.PremiumAmount < 0 {
			rec.PremiumAmount = 0
		}
	}

	inserted, err := s.repo.BulkInsert(ctx, records)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordMutation("create")
	s.publishMutation(ctx, "create", inserted[0].StaffID)
	return inserted, nil
}

// Update replaces the editable fields of one record.
func (s *PolicyService) Update(ctx context.Context, id int64, upd domain.PolicyUpdate) (*domain.PolicyRecord, error) {
	upd.PolicyNo = strings.ToUpper(strings.TrimSpace(upd.PolicyNo))
	if upd.PolicyNo == "" {
		return nil, apperrors.NewValidationError("policy number is required", nil)
	}
	if upd.PremiumAmount < 0 {
		upd.PremiumAmount = 0
	}

	rec, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordMutation("update")
	s.publishMutation(ctx, "update", rec.StaffID)
	return rec, nil
}

// Delete removes one record, returning the deleted row.
func (s *PolicyService) Delete(ctx context.Context, id int64) (*domain.PolicyRecord, error) {
	rec, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordMutation("delete")
	s.publishMutation(ctx, "delete", rec.StaffID)
	return rec, nil
}

// DeleteAll wipes the policy table after checking the admin credential.
// A wrong password yields an UNAUTHORIZED error, distinct from other failures.
func (s *PolicyService) DeleteAll(ctx context.Context, password string) (int64, error) {
	if s.credentials == nil || !s.credentials.VerifyAdminPassword(password) {
		return 0, apperrors.NewUnauthorized("invalid password")
	}
	count, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.metrics.RecordMutation("wipe")
	s.publishMutation(ctx, "wipe", "")
	return count, nil
}

// Backup snapshots the whole table in id order.
func (s *PolicyService) Backup(ctx context.Context) (*domain.Backup, error) {
	records, err := s.repo.ListForBackup(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.metrics != nil {
		s.metrics.BackupsTotal.Inc()
		s.metrics.BackupLastUnixTS.SetToCurrentTime()
	}
	return &domain.Backup{
		BackupDate:  time.Now().UTC(),
		RecordCount: len(records),
		Data:        records,
	}, nil
}

// Restore atomically replaces all records with the backup contents.
func (s *PolicyService) Restore(ctx context.Context, data []domain.PolicyRecord) (int, error) {
	if data == nil {
		return 0, apperrors.NewValidationError("invalid backup data format", nil)
	}
	for i := range data {
		rec := &data[i]
		rec.PolicyNo = strings.ToUpper(strings.TrimSpace(rec.PolicyNo))
		if rec.StaffID == "" || rec.PolicyNo == "" {
			return 0, apperrors.NewValidationError(
				"every record needs staff_id and policy_no", nil)
		}
		if rec.PremiumAmount < 0 {
			rec.PremiumAmount = 0
		}
	}
	if err := s.repo.ReplaceAll(ctx, data); err != nil {
		return 0, apperrors.MapError(err)
	}
	s.metrics.RecordMutation("restore")
	s.publishMutation(ctx, "restore", "")
	return len(data), nil
}

// UpdateStaffID propagates an employee-id change into the denormalized
// policy rows. Returns the number of rows touched.
func (s *PolicyService) UpdateStaffID(ctx context.Context, oldID, newID string) (int64, error) {
	if oldID == "" || newID == "" {
		return 0, apperrors.NewValidationError("both old and new staff ids are required", nil)
	}
	count, err := s.repo.UpdateStaffID(ctx, oldID, newID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if count > 0 {
		s.metrics.RecordMutation("staff_id_change")
		s.publishMutation(ctx, "staff_id_change", newID)
	}
	return count, nil
}

// Stats aggregates the policy table, served from Redis when fresh.
func (s *PolicyService) Stats(ctx context.Context) (*domain.PolicyStats, error) {
	if s.cache != nil && s.cache.Client != nil {
		if cached, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats domain.PolicyStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.metrics != nil {
		s.metrics.PolicyTableRows.Set(float64(stats.TotalPolicies))
	}

	if s.cache != nil && s.cache.Client != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.cache.Client.Set(ctx, statsCacheKey, payload, statsCacheTTL)
		}
	}
	return stats, nil
}

func (s *PolicyService) publishMutation(ctx context.Context, operation, staffID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventPolicyMutated,
		Operation: operation,
		StaffID:   staffID,
	})
}

func (s *PolicyService) invalidateStats(ctx context.Context, _ events.Event) error {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	return s.cache.Client.Del(ctx, statsCacheKey).Err()
}
