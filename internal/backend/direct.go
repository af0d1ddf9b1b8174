package backend

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-policy-service/internal/domain"
	"github.com/spec-kit/staff-policy-service/internal/repository"
)

// directBackend translates every operation into parameterized SQL against
// the pool, bypassing the REST surface. Bulk operations run inside a
// transaction, so create and replace stay all-or-nothing. The delete-all
// credential is checked here, client-side, because there is no remote
// endpoint to do it.
type directBackend struct {
	repo          repository.PolicyRepository
	adminPassword string
}

// NewDirect builds the direct strategy on top of the given pool.
func NewDirect(pool *pgxpool.Pool, adminPassword string) Backend {
	return &directBackend{
		repo:          repository.NewPolicyRepository(pool),
		adminPassword: adminPassword,
	}
}

func (b *directBackend) List(ctx context.Context) Result {
	records, err := b.repo.List(ctx)
	if err != nil {
		return directFailure(err)
	}
	return successRecords(records)
}

func (b *directBackend) Create(ctx context.Context, records []domain.PolicyRecord) Result {
	if len(records) == 0 {
		return failure("VALIDATION_FAILED", "policies array is required")
	}
	for i := range records {
		rec := &records[i]
		rec.PolicyNo = strings.ToUpper(strings.TrimSpace(rec.PolicyNo))
		if rec.StaffID == "" || rec.StaffName == "" || rec.PolicyNo == "" {
			return failure("VALIDATION_FAILED", "staff_id, staff_name and policy_no are required")
		}
	}
	inserted, err := b.repo.BulkInsert(ctx, records)
	if err != nil {
		return directFailure(err)
	}
	return successRecords(inserted)
}

func (b *directBackend) Update(ctx context.Context, id int64, upd domain.PolicyUpdate) Result {
	upd.PolicyNo = strings.ToUpper(strings.TrimSpace(upd.PolicyNo))
	if upd.PolicyNo == "" {
		return failure("VALIDATION_FAILED", "policy number is required")
	}
	rec, err := b.repo.Update(ctx, id, upd)
	if err != nil {
		return directFailure(err)
	}
	return successRecords([]domain.PolicyRecord{*rec})
}

func (b *directBackend) Delete(ctx context.Context, id int64) Result {
	rec, err := b.repo.Delete(ctx, id)
	if err != nil {
		return directFailure(err)
	}
	return successRecords([]domain.PolicyRecord{*rec})
}

func (b *directBackend) BulkDelete(ctx context.Context, password string) Result {
	if b.adminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(b.adminPassword)) != 1 {
		return failure("UNAUTHORIZED", "invalid password")
	}
	count, err := b.repo.DeleteAll(ctx)
	if err != nil {
		return directFailure(err)
	}
	res := success()
	res.Count = count
	return res
}

func (b *directBackend) BulkReplace(ctx context.Context, records []domain.PolicyRecord) Result {
	if records == nil {
		return failure("VALIDATION_FAILED", "invalid backup data format")
	}
	if err := b.repo.ReplaceAll(ctx, records); err != nil {
		return directFailure(err)
	}
	res := success()
	res.Count = int64(len(records))
	return res
}

func (b *directBackend) Backup(ctx context.Context) Result {
	records, err := b.repo.ListForBackup(ctx)
	if err != nil {
		return directFailure(err)
	}
	res := success()
	res.Backup = &domain.Backup{
		BackupDate:  time.Now().UTC(),
		RecordCount: len(records),
		Data:        records,
	}
	return res
}

func directFailure(err error) Result {
	if errors.Is(err, pgx.ErrNoRows) {
		return failure("NOT_FOUND", "policy record not found")
	}
	return failure("REMOTE_FAILURE", err.Error())
}
