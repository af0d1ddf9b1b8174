package domain

import "time"

// Backup is the persisted backup file format. RecordCount is advisory;
// restore only trusts Data.
type Backup struct {
	BackupDate  time.Time      `json:"backup_date"`
	RecordCount int            `json:"record_count"`
	Data        []PolicyRecord `json:"data"`
}
