package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/store"
	"go.uber.org/zap"
)

const backupJobName = "store-backup"

// backupPrefix names the timestamped copies of the store document
const backupPrefix = "quotes-"

// RegisterBackupJob schedules periodic copies of the store document into
// the backup directory, pruning old copies beyond the retention count.
// The live document is the only copy of every quote ever submitted, so
// losing it means losing the pipeline.
func RegisterBackupJob(scheduler *Scheduler, st *store.QuoteStore, cfg *config.BackupConfig, logger *zap.Logger) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	return scheduler.AddJob(backupJobName, cfg.CronExpr, func() {
		if err := BackupStore(st, cfg); err != nil {
			logger.Error("store backup failed", zap.Error(err))
			return
		}
		logger.Info("store backup completed", zap.String("dir", cfg.Dir))
	})
}

// BackupStore copies the store document into the backup directory with a
// timestamped name and prunes the oldest copies past the retention count.
// An absent document (no submissions yet) is a no-op.
func BackupStore(st *store.QuoteStore, cfg *config.BackupConfig) error {
	// LoadAll rather than a raw file copy: this holds the store lock, so
	// the backup never captures a half-written document.
	quotes, err := st.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load store for backup: %w", err)
	}
	if len(quotes) == 0 {
		if _, err := os.Stat(st.Path()); os.IsNotExist(err) {
			return nil
		}
	}

	data, err := os.ReadFile(st.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read store document: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", backupPrefix, time.Now().Format("20060102-150405"))
	target := filepath.Join(cfg.Dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return pruneBackups(cfg.Dir, cfg.Keep)
}

// pruneBackups removes the oldest backup files beyond keep
func pruneBackups(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list backup directory: %w", err)
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" && len(e.Name()) > len(backupPrefix) && e.Name()[:len(backupPrefix)] == backupPrefix {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= keep {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to prune backup %s: %w", name, err)
		}
	}
	return nil
}
