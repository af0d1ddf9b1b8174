package domain

import "time"

// PolicyRecord is one insurance policy attached to a staff member.
// Staff name, department, designation and type are denormalized copies
// captured at creation time so backups stay self-contained; they are only
// refreshed through an explicit employee-id propagation.
type PolicyRecord struct {
	ID               int64     `json:"id"`
	StaffID          string    `json:"staff_id"`
	StaffName        string    `json:"staff_name"`
	StaffDept        string    `json:"staff_dept"`
	StaffDesignation string    `json:"staff_designation"`
	StaffType        StaffType `json:"staff_type"`
	PolicyNo         string    `json:"policy_no"`
	PremiumAmount    float64   `json:"premium_amount"`
	MaturityDate     *string   `json:"maturity_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PolicyUpdate carries the editable fields of a policy.
type PolicyUpdate struct {
	PolicyNo      string  `json:"policy_no"`
	PremiumAmount float64 `json:"premium_amount"`
	MaturityDate  *string `json:"maturity_date"`
}

// PolicyStats aggregates the persisted policy table.
type PolicyStats struct {
	StaffWithPolicies int64   `json:"staff_with_policies"`
	TotalPolicies     int64   `json:"total_policies"`
	TotalPremium      float64 `json:"total_premium"`
}
