package dto

import "github.com/spec-kit/staff-policy-service/internal/domain"

// StaffRequest wraps a roster record for create/update.
type StaffRequest struct {
	Staff domain.StaffRecord `json:"staff"`
}

// ImportRosterRequest carries a full roster replacement.
type ImportRosterRequest struct {
	Staff []domain.StaffRecord `json:"staff"`
}
