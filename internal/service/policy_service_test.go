package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/events"
	apperrors "github.com/spec-kit/staff-policy-service/pkg/util"
)

type fakePolicyRepo struct {
	records   []domain.PolicyRecord
	nextID    int64
	insertErr error
}

func (f *fakePolicyRepo) List(context.Context) ([]domain.PolicyRecord, error) {
	return f.records, nil
}

func (f *fakePolicyRepo) ListByStaff(_ context.Context, staffID string) ([]domain.PolicyRecord, error) {
	var out []domain.PolicyRecord
	for _, rec := range f.records {
		if rec.StaffID == staffID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakePolicyRepo) BulkInsert(_ context.Context, records []domain.PolicyRecord) ([]domain.PolicyRecord, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	inserted := make([]domain.PolicyRecord, 0, len(records))
	for _, rec := range records {
		f.nextID++
		rec.ID = f.nextID
		f.records = append(f.records, rec)
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (f *fakePolicyRepo) Update(_ context.Context, id int64, upd domain.PolicyUpdate) (*domain.PolicyRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].PolicyNo = upd.PolicyNo
			f.records[i].PremiumAmount = upd.PremiumAmount
			f.records[i].MaturityDate = upd.MaturityDate
			return &f.records[i], nil
		}
	}
	return nil, apperrors.NewNotFound("policy record", nil)
}

func (f *fakePolicyRepo) Delete(_ context.Context, id int64) (*domain.PolicyRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			deleted := f.records[i]
			f.records = append(f.records[:i], f.records[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, apperrors.NewNotFound("policy record", nil)
}

func (f *fakePolicyRepo) DeleteAll(context.Context) (int64, error) {
	count := int64(len(f.records))
	f.records = nil
	return count, nil
}

func (f *fakePolicyRepo) ReplaceAll(_ context.Context, records []domain.PolicyRecord) error {
	f.records = append([]domain.PolicyRecord(nil), records...)
	return nil
}

func (f *fakePolicyRepo) UpdateStaffID(_ context.Context, oldID, newID string) (int64, error) {
	var count int64
	for i := range f.records {
		if f.records[i].StaffID == oldID {
			f.records[i].StaffID = newID
			count++
		}
	}
	return count, nil
}

func (f *fakePolicyRepo) ListForBackup(context.Context) ([]domain.PolicyRecord, error) {
	return f.records, nil
}

func (f *fakePolicyRepo) Stats(context.Context) (*domain.PolicyStats, error) {
	staff := map[string]struct{}{}
	var premium float64
	for _, rec := range f.records {
		staff[rec.StaffID] = struct{}{}
		premium += rec.PremiumAmount
	}
	return &domain.PolicyStats{
		StaffWithPolicies: int64(len(staff)),
		TotalPolicies:     int64(len(f.records)),
		TotalPremium:      premium,
	}, nil
}

type staticCredentials string

func (s staticCredentials) VerifyAdminPassword(password string) bool {
	return password != "" && password == string(s)
}

func newTestPolicyService(repo *fakePolicyRepo) *PolicyService {
	return NewPolicyService(PolicyDependencies{
		Repo:        repo,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Credentials: staticCredentials("open-sesame"),
	})
}

func TestBulkCreateNormalizesAndClamps(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newTestPolicyService(repo)

	inserted, err := svc.BulkCreate(context.Background(), []domain.PolicyRecord{
		{StaffID: "E1", StaffName: "Asha", PolicyNo: "  lic100 ", PremiumAmount: -12},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if inserted[0].PolicyNo != "LIC100" {
		t.Fatalf("policy number = %q, want LIC100", inserted[0].PolicyNo)
	}
	if inserted[0].PremiumAmount != 0 {
		t.Fatalf("negative premium not clamped: %v", inserted[0].PremiumAmount)
	}
	if inserted[0].ID == 0 {
		t.Fatalf("inserted record has no id")
	}
}

func TestBulkCreateRejectsEmptyBatchAndMissingFields(t *testing.T) {
	svc := newTestPolicyService(&fakePolicyRepo{})

	if _, err := svc.BulkCreate(context.Background(), nil); err == nil {
		t.Fatalf("empty batch accepted")
	}
	_, err := svc.BulkCreate(context.Background(), []domain.PolicyRecord{
		{StaffID: "E1", StaffName: "Asha", PolicyNo: "   "},
	})
	if err == nil {
		t.Fatalf("blank policy number accepted")
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", domainErr.Code)
	}
}

func TestBulkCreateIsAllOrNothing(t *testing.T) {
	repo := &fakePolicyRepo{insertErr: errors.New("constraint violated")}
	svc := newTestPolicyService(repo)

	_, err := svc.BulkCreate(context.Background(), []domain.PolicyRecord{
		{StaffID: "E1", StaffName: "Asha", PolicyNo: "LIC100"},
	})
	if err == nil {
		t.Fatalf("expected insert failure")
	}
	if len(repo.records) != 0 {
		t.Fatalf("failed insert left partial state: %+v", repo.records)
	}
}

func TestDeleteAllRequiresCredential(t *testing.T) {
	repo := &fakePolicyRepo{records: []domain.PolicyRecord{{ID: 1, StaffID: "E1", PolicyNo: "LIC001"}}}
	svc := newTestPolicyService(repo)

	_, err := svc.DeleteAll(context.Background(), "wrong")
	if err == nil {
		t.Fatalf("wrong password accepted")
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != "UNAUTHORIZED" || domainErr.Message != "invalid password" {
		t.Fatalf("unexpected error: %+v", domainErr)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records deleted despite rejected credential")
	}

	count, err := svc.DeleteAll(context.Background(), "open-sesame")
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if count != 1 || len(repo.records) != 0 {
		t.Fatalf("wipe incomplete: count=%d remaining=%d", count, len(repo.records))
	}
}

func TestRestoreValidatesAndReplaces(t *testing.T) {
	repo := &fakePolicyRepo{records: []domain.PolicyRecord{{ID: 1, StaffID: "OLD", PolicyNo: "LIC000"}}}
	svc := newTestPolicyService(repo)

	if _, err := svc.Restore(context.Background(), nil); err == nil {
		t.Fatalf("nil data accepted")
	}
	_, err := svc.Restore(context.Background(), []domain.PolicyRecord{{StaffID: "", PolicyNo: "LIC001"}})
	if err == nil {
		t.Fatalf("record without staff_id accepted")
	}
	if len(repo.records) != 1 || repo.records[0].StaffID != "OLD" {
		t.Fatalf("rejected restore modified state")
	}

	count, err := svc.Restore(context.Background(), []domain.PolicyRecord{
		{StaffID: "E1", PolicyNo: "lic100"},
		{StaffID: "E2", PolicyNo: "LIC200"},
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if count != 2 || len(repo.records) != 2 {
		t.Fatalf("restore count=%d records=%d", count, len(repo.records))
	}
	if repo.records[0].PolicyNo != "LIC100" {
		t.Fatalf("restore skipped normalization: %q", repo.records[0].PolicyNo)
	}

	// An empty but present data array clears the table.
	count, err = svc.Restore(context.Background(), []domain.PolicyRecord{})
	if err != nil {
		t.Fatalf("empty restore: %v", err)
	}
	if count != 0 || len(repo.records) != 0 {
		t.Fatalf("empty restore should clear the table")
	}
}

func TestUpdateStaffIDPropagates(t *testing.T) {
	repo := &fakePolicyRepo{records: []domain.PolicyRecord{
		{ID: 1, StaffID: "E1", PolicyNo: "LIC001"},
		{ID: 2, StaffID: "E1", PolicyNo: "LIC002"},
		{ID: 3, StaffID: "E2", PolicyNo: "LIC003"},
	}}
	svc := newTestPolicyService(repo)

	count, err := svc.UpdateStaffID(context.Background(), "E1", "E9")
	if err != nil {
		t.Fatalf("update staff id: %v", err)
	}
	if count != 2 {
		t.Fatalf("touched %d rows, want 2", count)
	}
	if repo.records[2].StaffID != "E2" {
		t.Fatalf("unrelated staff id rewritten")
	}

	if _, err := svc.UpdateStaffID(context.Background(), "", "E9"); err == nil {
		t.Fatalf("blank old id accepted")
	}
}

func TestBackupSnapshotsTable(t *testing.T) {
	repo := &fakePolicyRepo{records: []domain.PolicyRecord{
		{ID: 1, StaffID: "E1", PolicyNo: "LIC001"},
		{ID: 2, StaffID: "E2", PolicyNo: "LIC002"},
	}}
	svc := newTestPolicyService(repo)

	backup, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if backup.RecordCount != 2 || len(backup.Data) != 2 {
		t.Fatalf("backup shape: count=%d data=%d", backup.RecordCount, len(backup.Data))
	}
	if backup.BackupDate.IsZero() {
		t.Fatalf("backup date not set")
	}
}

func TestStatsAggregates(t *testing.T) {
	repo := &fakePolicyRepo{records: []domain.PolicyRecord{
		{ID: 1, StaffID: "E1", PolicyNo: "LIC001", PremiumAmount: 100},
		{ID: 2, StaffID: "E1", PolicyNo: "LIC002", PremiumAmount: 250.5},
		{ID: 3, StaffID: "E2", PolicyNo: "LIC003", PremiumAmount: 400},
	}}
	svc := newTestPolicyService(repo)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.StaffWithPolicies != 2 || stats.TotalPolicies != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.TotalPremium != 750.5 {
		t.Fatalf("total premium = %v, want 750.5", stats.TotalPremium)
	}
}
