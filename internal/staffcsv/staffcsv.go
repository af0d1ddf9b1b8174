// Package staffcsv converts the staff roster to and from its CSV exchange
// format, used by the import endpoint and kept for compatibility with the
// spreadsheets administrators maintain.
package staffcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

var header = []string{
	"Sl", "Name", "Designation", "Type", "Dept", "Status",
	"DOB", "Emp ID", "DOE", "Bank Acct No", "Tax ID", "National ID", "Phone", "Mail ID",
}

// Parse reads a roster CSV. Rows with an empty name are skipped; a row
// without an employee id is an error because policies key on it.
func Parse(r io.Reader) ([]domain.StaffRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster csv is empty")
	}

	var records []domain.StaffRecord
	for i, row := range rows[1:] {
		get := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		name := get(1)
		if name == "" {
			continue
		}
		empID := get(7)
		if empID == "" {
			return nil, fmt.Errorf("row %d: missing employee id for %q", i+2, name)
		}

		records = append(records, domain.StaffRecord{
			Serial:      get(0),
			Name:        name,
			Designation: get(2),
			Type:        domain.StaffType(get(3)),
			Dept:        get(4),
			Status:      domain.StaffStatus(get(5)),
			DateOfBirth: optional(get(6)),
			EmpID:       empID,
			DateOfEntry: optional(get(8)),
			BankAccount: optional(get(9)),
			TaxID:       optional(get(10)),
			NationalID:  optional(get(11)),
			Phone:       optional(get(12)),
			Email:       optional(get(13)),
		})
	}
	return records, nil
}

// Write serializes the roster back to CSV in the same column order.
func Write(w io.Writer, records []domain.StaffRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Serial,
			rec.Name,
			rec.Designation,
			string(rec.Type),
			rec.Dept,
			string(rec.Status),
			deref(rec.DateOfBirth),
			rec.EmpID,
			deref(rec.DateOfEntry),
			deref(rec.BankAccount),
			deref(rec.TaxID),
			deref(rec.NationalID),
			deref(rec.Phone),
			deref(rec.Email),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func optional(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}

func deref(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
