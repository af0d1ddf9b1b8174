package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

// PolicyRepository handles persistence for insurance policy records.
type PolicyRepository interface {
	List(ctx context.Context) ([]domain.PolicyRecord, error)
	ListByStaff(ctx context.Context, staffID string) ([]domain.PolicyRecord, error)
	BulkInsert(ctx context.Context, records []domain.PolicyRecord) ([]domain.PolicyRecord, error)
	Update(ctx context.Context, id int64, upd domain.PolicyUpdate) (*domain.PolicyRecord, error)
	Delete(ctx context.Context, id int64) (*domain.PolicyRecord, error)
	DeleteAll(ctx context.Context) (int64, error)
	ReplaceAll(ctx context.Context, records []domain.PolicyRecord) error
	UpdateStaffID(ctx context.Context, oldID, newID string) (int64, error)
	ListForBackup(ctx context.Context) ([]domain.PolicyRecord, error)
	Stats(ctx context.Context) (*domain.PolicyStats, error)
}

const policyColumns = `id, staff_id, staff_name, staff_dept, staff_designation, staff_type,
        policy_no, premium_amount, maturity_date, created_at, updated_at`

type policyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository instantiates the repository.
func NewPolicyRepository(pool *pgxpool.Pool) PolicyRepository {
	return &policyRepository{pool: pool}
}

func (r *policyRepository) List(ctx context.Context) ([]domain.PolicyRecord, error) {
	query := `
        SELECT ` + policyColumns + `
        FROM policy_records
        ORDER BY staff_name ASC, created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func (r *policyRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.PolicyRecord, error) {
	query := `
        SELECT ` + policyColumns + `
        FROM policy_records
        WHERE staff_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

// BulkInsert writes the batch inside one transaction so a multi-policy
// submission is all-or-nothing.
func (r *policyRepository) BulkInsert(ctx context.Context, records []domain.PolicyRecord) ([]domain.PolicyRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	inserted, err := insertPolicies(ctx, tx, records)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return inserted, nil
}

func insertPolicies(ctx context.Context, tx pgx.Tx, records []domain.PolicyRecord) ([]domain.PolicyRecord, error) {
	values := make([]any, 0, len(records)*8)
	placeholders := make([]string, 0, len(records))
	for i, rec := range records {
		base := i * 8
		placeholders = append(placeholders, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		values = append(values,
			rec.StaffID,
			rec.StaffName,
			rec.StaffDept,
			rec.StaffDesignation,
			rec.StaffType,
			rec.PolicyNo,
			rec.PremiumAmount,
			rec.MaturityDate,
		)
	}

	query := `
        INSERT INTO policy_records (
            staff_id, staff_name, staff_dept, staff_designation, staff_type,
            policy_no, premium_amount, maturity_date
        ) VALUES ` + strings.Join(placeholders, ", ") + `
        RETURNING ` + policyColumns

	rows, err := tx.Query(ctx, query, values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func (r *policyRepository) Update(ctx context.Context, id int64, upd domain.PolicyUpdate) (*domain.PolicyRecord, error) {
	query := `
        UPDATE policy_records
        SET policy_no=$1, premium_amount=$2, maturity_date=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING ` + policyColumns

	var rec domain.PolicyRecord
	if err := r.pool.QueryRow(ctx, query,
		upd.PolicyNo,
		upd.PremiumAmount,
		upd.MaturityDate,
		id,
	).Scan(policyFields(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *policyRepository) Delete(ctx context.Context, id int64) (*domain.PolicyRecord, error) {
	query := `
        DELETE FROM policy_records
        WHERE id=$1
        RETURNING ` + policyColumns

	var rec domain.PolicyRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(policyFields(&rec)...); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *policyRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM policy_records`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ReplaceAll wipes the table and writes the given records in one
// transaction; the caller sees either the old state or the new state.
func (r *policyRepository) ReplaceAll(ctx context.Context, records []domain.PolicyRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM policy_records`); err != nil {
		return err
	}
	if len(records) > 0 {
		if _, err := insertPolicies(ctx, tx, records); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *policyRepository) UpdateStaffID(ctx context.Context, oldID, newID string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
        UPDATE policy_records
        SET staff_id=$1, updated_at=NOW()
        WHERE staff_id=$2`,
		newID, oldID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *policyRepository) ListForBackup(ctx context.Context) ([]domain.PolicyRecord, error) {
	query := `
        SELECT ` + policyColumns + `
        FROM policy_records
        ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPolicies(rows)
}

func (r *policyRepository) Stats(ctx context.Context) (*domain.PolicyStats, error) {
	var stats domain.PolicyStats
	if err := r.pool.QueryRow(ctx, `
        SELECT COUNT(DISTINCT staff_id), COUNT(*), COALESCE(SUM(premium_amount), 0)
        FROM policy_records`).Scan(
		&stats.StaffWithPolicies,
		&stats.TotalPolicies,
		&stats.TotalPremium,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func policyFields(rec *domain.PolicyRecord) []any {
	return []any{
		&rec.ID,
		&rec.StaffID,
		&rec.StaffName,
		&rec.StaffDept,
		&rec.StaffDesignation,
		&rec.StaffType,
		&rec.PolicyNo,
		&rec.PremiumAmount,
		&rec.MaturityDate,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
}

func scanPolicies(rows pgx.Rows) ([]domain.PolicyRecord, error) {
	var result []domain.PolicyRecord
	for rows.Next() {
		var rec domain.PolicyRecord
		if err := rows.Scan(policyFields(&rec)...); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
