package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

// StaffRepository handles persistence for the staff roster.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffRecord) error
	Update(ctx context.Context, staff *domain.StaffRecord) error
	GetByEmpID(ctx context.Context, empID string) (*domain.StaffRecord, error)
	List(ctx context.Context) ([]domain.StaffRecord, error)
	Delete(ctx context.Context, empID string) (*domain.StaffRecord, error)
	ReplaceAll(ctx context.Context, records []domain.StaffRecord) error
}

const staffColumns = `id, emp_id, serial, name, designation, type, dept, status,
        date_of_birth, date_of_entry, bank_account, tax_id, national_id, phone, email,
        created_at, updated_at`

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffRecord) error {
	const query = `
        INSERT INTO staff_records (
            emp_id, serial, name, designation, type, dept, status,
            date_of_birth, date_of_entry, bank_account, tax_id, national_id, phone, email
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.EmpID,
		staff.Serial,
		staff.Name,
		staff.Designation,
		staff.Type,
		staff.Dept,
		staff.Status,
		staff.DateOfBirth,
		staff.DateOfEntry,
		staff.BankAccount,
		staff.TaxID,
		staff.NationalID,
		staff.Phone,
		staff.Email,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffRecord) error {
	const query = `
        UPDATE staff_records
        SET emp_id=$1, serial=$2, name=$3, designation=$4, type=$5, dept=$6, status=$7,
            date_of_birth=$8, date_of_entry=$9, bank_account=$10, tax_id=$11,
            national_id=$12, phone=$13, email=$14, updated_at=NOW()
        WHERE id=$15`

	cmd, err := r.pool.Exec(ctx, query,
		staff.EmpID,
		staff.Serial,
		staff.Name,
		staff.Designation,
		staff.Type,
		staff.Dept,
		staff.Status,
		staff.DateOfBirth,
		staff.DateOfEntry,
		staff.BankAccount,
		staff.TaxID,
		staff.NationalID,
		staff.Phone,
		staff.Email,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByEmpID(ctx context.Context, empID string) (*domain.StaffRecord, error) {
	query := `
        SELECT ` + staffColumns + `
        FROM staff_records WHERE emp_id=$1`

	var staff domain.StaffRecord
	if err := r.pool.QueryRow(ctx, query, empID).Scan(staffFields(&staff)...); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]domain.StaffRecord, error) {
	query := `
        SELECT ` + staffColumns + `
        FROM staff_records
        ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffRecord
	for rows.Next() {
		var staff domain.StaffRecord
		if err := rows.Scan(staffFields(&staff)...); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, empID string) (*domain.StaffRecord, error) {
	query := `
        DELETE FROM staff_records
        WHERE emp_id=$1
        RETURNING ` + staffColumns

	var staff domain.StaffRecord
	if err := r.pool.QueryRow(ctx, query, empID).Scan(staffFields(&staff)...); err != nil {
		return nil, err
	}
	return &staff, nil
}

// ReplaceAll swaps the whole roster in one transaction; used by CSV import.
func (r *staffRepository) ReplaceAll(ctx context.Context, records []domain.StaffRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM staff_records`); err != nil {
		return err
	}

	if len(records) > 0 {
		values := make([]any, 0, len(records)*14)
		placeholders := make([]string, 0, len(records))
		for i, staff := range records {
			base := i * 14
			marks := make([]string, 14)
			for j := range marks {
				marks[j] = fmt.Sprintf("$%d", base+j+1)
			}
			placeholders = append(placeholders, "("+strings.Join(marks, ",")+")")
			values = append(values,
				staff.EmpID, staff.Serial, staff.Name, staff.Designation, staff.Type,
				staff.Dept, staff.Status, staff.DateOfBirth, staff.DateOfEntry,
				staff.BankAccount, staff.TaxID, staff.NationalID, staff.Phone, staff.Email,
			)
		}

		query := `
            INSERT INTO staff_records (
                emp_id, serial, name, designation, type, dept, status,
                date_of_birth, date_of_entry, bank_account, tax_id, national_id, phone, email
            ) VALUES ` + strings.Join(placeholders, ", ")

		if _, err := tx.Exec(ctx, query, values...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func staffFields(staff *domain.StaffRecord) []any {
	return []any{
		&staff.ID,
		&staff.EmpID,
		&staff.Serial,
		&staff.Name,
		&staff.Designation,
		&staff.Type,
		&staff.Dept,
		&staff.Status,
		&staff.DateOfBirth,
		&staff.DateOfEntry,
		&staff.BankAccount,
		&staff.TaxID,
		&staff.NationalID,
		&staff.Phone,
		&staff.Email,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	}
}
