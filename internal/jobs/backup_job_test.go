package jobs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msplaco/quote-api/internal/config"
	"github.com/msplaco/quote-api/internal/domain"
	"github.com/msplaco/quote-api/internal/jobs"
	"github.com/msplaco/quote-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBackup(t *testing.T) (*store.QuoteStore, *config.BackupConfig) {
	t.Helper()
	base := t.TempDir()
	st, err := store.New(filepath.Join(base, "quotes.json"), zap.NewNop())
	require.NoError(t, err)

	cfg := &config.BackupConfig{
		Enabled:  true,
		CronExpr: "@daily",
		Dir:      filepath.Join(base, "backups"),
		Keep:     3,
	}
	require.NoError(t, os.MkdirAll(cfg.Dir, 0o755))
	return st, cfg
}

func listBackups(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBackupStore(t *testing.T) {
	t.Run("copies the document verbatim", func(t *testing.T) {
		st, cfg := setupBackup(t)
		require.NoError(t, st.SaveAll([]domain.Quote{{
			ID:        1,
			FirstName: "Amine",
			LastName:  "B",
			Email:     "a@b.com",
			Status:    domain.QuoteStatusNew,
		}}))

		require.NoError(t, jobs.BackupStore(st, cfg))

		names := listBackups(t, cfg.Dir)
		require.Len(t, names, 1)

		original, err := os.ReadFile(st.Path())
		require.NoError(t, err)
		backup, err := os.ReadFile(filepath.Join(cfg.Dir, names[0]))
		require.NoError(t, err)
		assert.Equal(t, original, backup)
	})

	t.Run("absent document is a no-op", func(t *testing.T) {
		st, cfg := setupBackup(t)

		require.NoError(t, jobs.BackupStore(st, cfg))
		assert.Empty(t, listBackups(t, cfg.Dir))
	})

	t.Run("prunes the oldest copies past the retention count", func(t *testing.T) {
		st, cfg := setupBackup(t)
		require.NoError(t, st.SaveAll([]domain.Quote{{ID: 1, Status: domain.QuoteStatusNew}}))

		// Seed aged backups; timestamped names sort chronologically
		aged := []string{
			"quotes-20250101-000000.json",
			"quotes-20250102-000000.json",
			"quotes-20250103-000000.json",
		}
		for _, name := range aged {
			require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, name), []byte("[]"), 0o644))
		}

		require.NoError(t, jobs.BackupStore(st, cfg))

		names := listBackups(t, cfg.Dir)
		assert.Len(t, names, cfg.Keep)
		assert.NotContains(t, names, "quotes-20250101-000000.json")
		assert.Contains(t, names, "quotes-20250103-000000.json")
	})

	t.Run("unrelated files in the backup dir are never pruned", func(t *testing.T) {
		st, cfg := setupBackup(t)
		cfg.Keep = 1
		require.NoError(t, st.SaveAll([]domain.Quote{{ID: 1, Status: domain.QuoteStatusNew}}))

		other := filepath.Join(cfg.Dir, "notes.txt")
		require.NoError(t, os.WriteFile(other, []byte("keep me"), 0o644))

		require.NoError(t, jobs.BackupStore(st, cfg))

		_, err := os.Stat(other)
		assert.NoError(t, err)
	})
}

func TestScheduler(t *testing.T) {
	t.Run("registers jobs by name", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop())

		require.NoError(t, s.AddJob("store-backup", "@daily", func() {}))
		assert.Equal(t, []string{"store-backup"}, s.JobNames())
	})

	t.Run("duplicate job names are rejected", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop())

		require.NoError(t, s.AddJob("store-backup", "@daily", func() {}))
		assert.Error(t, s.AddJob("store-backup", "@hourly", func() {}))
	})

	t.Run("invalid cron expressions are rejected", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop())
		assert.Error(t, s.AddJob("bad", "not-a-cron-expr", func() {}))
	})
}
