package domain

import "time"

// StaffType distinguishes teaching from non-teaching positions.
type StaffType string

const (
	StaffTypeTeaching    StaffType = "TEACHING"
	StaffTypeNonTeaching StaffType = "NON_TEACHING"
)

// StaffStatus enumerates employment states.
type StaffStatus string

const (
	StaffStatusInService StaffStatus = "IN_SERVICE"
	StaffStatusRetired   StaffStatus = "RETIRED"
)

// StaffRecord models one employee in the roster. EmpID is the stable
// identifier policies reference; it is unique across the roster.
type StaffRecord struct {
	ID          int64       `json:"id"`
	EmpID       string      `json:"emp_id"`
	Serial      string      `json:"serial"`
	Name        string      `json:"name"`
	Designation string      `json:"designation"`
	Type        StaffType   `json:"type"`
	Dept        string      `json:"dept"`
	Status      StaffStatus `json:"status"`
	DateOfBirth *string     `json:"date_of_birth,omitempty"`
	DateOfEntry *string     `json:"date_of_entry,omitempty"`
	BankAccount *string     `json:"bank_account,omitempty"`
	TaxID       *string     `json:"tax_id,omitempty"`
	NationalID  *string     `json:"national_id,omitempty"`
	Phone       *string     `json:"phone,omitempty"`
	Email       *string     `json:"email,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
