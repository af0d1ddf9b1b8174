package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/events"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

type fakeStaffRepo struct {
	records []domain.StaffRecord
	nextID  int64
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffRecord) error {
	f.nextID++
	staff.ID = f.nextID
	f.records = append(f.records, *staff)
	return nil
}

func (f *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffRecord) error {
	for i := range f.records {
		if f.records[i].ID == staff.ID {
			f.records[i] = *staff
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByEmpID(_ context.Context, empID string) (*domain.StaffRecord, error) {
	for i := range f.records {
		if f.records[i].EmpID == empID {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) List(context.Context) ([]domain.StaffRecord, error) {
	return f.records, nil
}

func (f *fakeStaffRepo) Delete(_ context.Context, empID string) (*domain.StaffRecord, error) {
	for i := range f.records {
		if f.records[i].EmpID == empID {
			deleted := f.records[i]
			f.records = append(f.records[:i], f.records[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) ReplaceAll(_ context.Context, records []domain.StaffRecord) error {
	f.records = append([]domain.StaffRecord(nil), records...)
	return nil
}

func newTestStaffService(staffRepo *fakeStaffRepo, policyRepo *fakePolicyRepo) *StaffService {
	dispatcher := events.NewInMemoryDispatcher()
	return NewStaffService(StaffDependencies{
		StaffRepo: staffRepo,
		Policies: NewPolicyService(PolicyDependencies{
			Repo:       policyRepo,
			Dispatcher: dispatcher,
		}),
		Dispatcher: dispatcher,
	})
}

func TestStaffCreateRejectsDuplicateEmpID(t *testing.T) {
	repo := &fakeStaffRepo{}
	svc := newTestStaffService(repo, &fakePolicyRepo{})

	if _, err := svc.Create(context.Background(), &domain.StaffRecord{EmpID: "E1", Name: "Asha"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(context.Background(), &domain.StaffRecord{EmpID: "E1", Name: "Binod"})
	if err == nil {
		t.Fatalf("duplicate emp_id accepted")
	}
	if apperrors.ToDomainError(err).Code != "CONFLICT" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStaffUpdatePropagatesEmpIDChange(t *testing.T) {
	staffRepo := &fakeStaffRepo{}
	policyRepo := &fakePolicyRepo{records: []domain.PolicyRecord{
		{ID: 1, StaffID: "E1", PolicyNo: "LIC001"},
		{ID: 2, StaffID: "E2", PolicyNo: "LIC002"},
	}}
	svc := newTestStaffService(staffRepo, policyRepo)

	if _, err := svc.Create(context.Background(), &domain.StaffRecord{EmpID: "E1", Name: "Asha"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), "E1", &domain.StaffRecord{EmpID: "E9", Name: "Asha"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.EmpID != "E9" {
		t.Fatalf("emp_id not updated: %q", updated.EmpID)
	}
	if policyRepo.records[0].StaffID != "E9" {
		t.Fatalf("policy rows not repointed: %+v", policyRepo.records[0])
	}
	if policyRepo.records[1].StaffID != "E2" {
		t.Fatalf("unrelated policy rows repointed")
	}
}

func TestStaffUpdateUnknownEmpIDIsNotFound(t *testing.T) {
	svc := newTestStaffService(&fakeStaffRepo{}, &fakePolicyRepo{})

	_, err := svc.Update(context.Background(), "ghost", &domain.StaffRecord{Name: "Nobody"})
	if err == nil {
		t.Fatalf("unknown emp_id accepted")
	}
	if apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestImportRosterRejectsDuplicatesWithoutReplacing(t *testing.T) {
	repo := &fakeStaffRepo{records: []domain.StaffRecord{{ID: 1, EmpID: "E0", Name: "Existing"}}}
	svc := newTestStaffService(repo, &fakePolicyRepo{})

	_, err := svc.ImportRoster(context.Background(), []domain.StaffRecord{
		{EmpID: "E1", Name: "Asha"},
		{EmpID: "E1", Name: "Binod"},
	})
	if err == nil {
		t.Fatalf("duplicate emp_id in import accepted")
	}
	if len(repo.records) != 1 || repo.records[0].EmpID != "E0" {
		t.Fatalf("rejected import modified the roster")
	}

	count, err := svc.ImportRoster(context.Background(), []domain.StaffRecord{
		{EmpID: "E1", Name: "Asha"},
		{EmpID: "E2", Name: "Binod"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 2 || len(repo.records) != 2 {
		t.Fatalf("import incomplete: count=%d roster=%d", count, len(repo.records))
	}
}
