package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/config"
	"github.com/spec-kit/staff-policy-service/internal/service"
)

// BackupWorker periodically snapshots the policy table to timestamped JSON
// files on disk.
type BackupWorker struct {
	cfg      config.BackupConfig
	policies *service.PolicyService
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewBackupWorker constructs the worker. Call Start to begin scheduling.
func NewBackupWorker(cfg config.BackupConfig, policies *service.PolicyService, logger *zap.Logger) *BackupWorker {
	return &BackupWorker{
		cfg:      cfg,
		policies: policies,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and launches the scheduler.
func (w *BackupWorker) Start() error {
	if !w.cfg.Enabled {
		w.logger.Info("scheduled backups disabled")
		return nil
	}
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if _, err := w.cron.AddFunc(w.cfg.Schedule, w.run); err != nil {
		return fmt.Errorf("schedule backup job: %w", err)
	}
	w.cron.Start()
	w.logger.Info("scheduled backups enabled",
		zap.String("schedule", w.cfg.Schedule), zap.String("dir", w.cfg.Dir))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *BackupWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *BackupWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	backup, err := w.policies.Backup(ctx)
	if err != nil {
		w.logger.Error("scheduled backup failed", zap.Error(err))
		return
	}

	name := fmt.Sprintf("policy_backup_%s.json", backup.BackupDate.UTC().Format("20060102_150405"))
	path := filepath.Join(w.cfg.Dir, name)

	encoded, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		w.logger.Error("scheduled backup encode failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		w.logger.Error("scheduled backup write failed", zap.Error(err))
		return
	}

	w.logger.Info("backup written",
		zap.String("path", path), zap.Int("records", backup.RecordCount))
}
