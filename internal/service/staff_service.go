package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/events"
	"github.com/spec-kit/staff-policy-service/internal/repository"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

// StaffService manages the staff roster. Employee-id changes are propagated
// into the denormalized policy rows through the policy service.
type StaffService struct {
	staff      repository.StaffRepository
	policies   *PolicyService
	dispatcher events.Dispatcher
}

// StaffDependencies encapsulates collaborators for the service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	Policies   *PolicyService
	Dispatcher events.Dispatcher
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		policies:   deps.Policies,
		dispatcher: deps.Dispatcher,
	}
}

// List returns the roster ordered by name.
func (s *StaffService) List(ctx context.Context) ([]domain.StaffRecord, error) {
	records, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// GetByEmpID fetches one staff record.
func (s *StaffService) GetByEmpID(ctx context.Context, empID string) (*domain.StaffRecord, error) {
	staff, err := s.staff.GetByEmpID(ctx, empID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff record", map[string]any{"emp_id": empID})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// Create adds one staff record after checking employee-id uniqueness.
func (s *StaffService) Create(ctx context.Context, staff *domain.StaffRecord) (*domain.StaffRecord, error) {
	if staff.EmpID == "" || staff.Name == "" {
		return nil, apperrors.NewValidationError("emp_id and name are required", nil)
	}
	if existing, err := s.staff.GetByEmpID(ctx, staff.EmpID); err == nil && existing != nil {
		return nil, apperrors.NewConflict("employee id already exists", map[string]any{"emp_id": staff.EmpID})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, "create", staff.EmpID)
	return staff, nil
}

// Update modifies one staff record, keyed by its current employee id. When
// the employee id itself changes it must stay unique, and the change is
// propagated into the policy table so denormalized rows do not go stale.
func (s *StaffService) Update(ctx context.Context, empID string, updated *domain.StaffRecord) (*domain.StaffRecord, error) {
	if updated.Name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	current, err := s.GetByEmpID(ctx, empID)
	if err != nil {
		return nil, err
	}

	if updated.EmpID == "" {
		updated.EmpID = empID
	}
	if updated.EmpID != empID {
		if existing, err := s.staff.GetByEmpID(ctx, updated.EmpID); err == nil && existing != nil {
			return nil, apperrors.NewConflict("employee id already exists", map[string]any{"emp_id": updated.EmpID})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	updated.ID = current.ID
	if err := s.staff.Update(ctx, updated); err != nil {
		return nil, apperrors.MapError(err)
	}

	if updated.EmpID != empID && s.policies != nil {
		if _, err := s.policies.UpdateStaffID(ctx, empID, updated.EmpID); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, "update", updated.EmpID)
	return updated, nil
}

// Delete removes one staff record from the roster. Policies referencing the
// employee id are left in place; they remain reachable through backups.
func (s *StaffService) Delete(ctx context.Context, empID string) (*domain.StaffRecord, error) {
	staff, err := s.staff.Delete(ctx, empID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff record", map[string]any{"emp_id": empID})
		}
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, "delete", empID)
	return staff, nil
}

// ImportRoster atomically replaces the whole roster, typically from a CSV
// upload. Employee ids must be unique within the import.
func (s *StaffService) ImportRoster(ctx context.Context, records []domain.StaffRecord) (int, error) {
	if records == nil {
		return 0, apperrors.NewValidationError("invalid staff data format", nil)
	}
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		rec := &records[i]
		if rec.EmpID == "" || rec.Name == "" {
			return 0, apperrors.NewValidationError("every record needs emp_id and name", nil)
		}
		if _, dup := seen[rec.EmpID]; dup {
			return 0, apperrors.NewConflict("duplicate employee id in import", map[string]any{"emp_id": rec.EmpID})
		}
		seen[rec.EmpID] = struct{}{}
	}

	if err := s.staff.ReplaceAll(ctx, records); err != nil {
		return 0, apperrors.MapError(err)
	}
	s.publish(ctx, "import", "")
	return len(records), nil
}

func (s *StaffService) publish(ctx context.Context, operation, empID string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventRosterMutated,
		Operation: operation,
		StaffID:   empID,
	})
}
