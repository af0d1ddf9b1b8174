package dto

import "github.com/spec-kit/staff-policy-service/internal/domain"

// BulkCreateRequest carries one submission batch.
type BulkCreateRequest struct {
	Policies []PolicyPayload `json:"policies"`
}

// PolicyPayload is one policy as sent by a client, denormalized staff
// fields included.
type PolicyPayload struct {
	StaffID          string           `json:"staff_id"`
	StaffName        string           `json:"staff_name"`
	StaffDept        string           `json:"staff_dept"`
	StaffDesignation string           `json:"staff_designation"`
	StaffType        domain.StaffType `json:"staff_type"`
	PolicyNo         string           `json:"policy_no"`
	PremiumAmount    float64          `json:"premium_amount"`
	MaturityDate     *string          `json:"maturity_date"`
}

// UpdatePolicyRequest carries the editable fields.
type UpdatePolicyRequest struct {
	PolicyNo      string  `json:"policy_no"`
	PremiumAmount float64 `json:"premium_amount"`
	MaturityDate  *string `json:"maturity_date"`
}

// DeleteAllRequest guards the destructive wipe.
type DeleteAllRequest struct {
	Password string `json:"password"`
}

// RestoreRequest carries the backup payload to re-import.
type RestoreRequest struct {
	Data []domain.PolicyRecord `json:"data"`
}

// UpdateStaffIDRequest propagates an employee-id change into policy rows.
type UpdateStaffIDRequest struct {
	OldEmpID string `json:"old_emp_id"`
	NewEmpID string `json:"new_emp_id"`
}

// ToRecord converts the payload to a domain record.
func (p PolicyPayload) ToRecord() domain.PolicyRecord {
	return domain.PolicyRecord{
		StaffID:          p.StaffID,
		StaffName:        p.StaffName,
		StaffDept:        p.StaffDept,
		StaffDesignation: p.StaffDesignation,
		StaffType:        p.StaffType,
		PolicyNo:         p.PolicyNo,
		PremiumAmount:    p.PremiumAmount,
		MaturityDate:     p.MaturityDate,
	}
}
