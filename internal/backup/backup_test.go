package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/trackit/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "trackit.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		"CREATE TABLE trackers (id TEXT PRIMARY KEY, name TEXT)",
		"INSERT INTO trackers (id, name) VALUES ('t1', 'Run'), ('t2', 'Read')",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed database: %v", err)
		}
	}
	return dbPath
}

func countTrackers(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM trackers").Scan(&n); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return n
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, "")

	backupPath, err := mgr.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s", backupPath)
	}
	if n := countTrackers(t, backupPath); n != 2 {
		t.Errorf("backup has %d trackers, want 2", n)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"), "")
	if _, err := mgr.CreateBackup(context.Background()); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, "")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		path, err := mgr.CreateBackup(context.Background())
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 4 {
		t.Errorf("ListBackups() = %d entries, want 4", len(backups))
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, filepath.Join(t.TempDir(), "custom"))

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.Local)
	for i := 0; i < constants.MaxBackups+3; i++ {
		day := base.AddDate(0, 0, i)
		mgr.now = func() time.Time { return day }
		if _, err := mgr.CreateBackup(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	newest := base.AddDate(0, 0, constants.MaxBackups+2)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
}

func TestListBackupsSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(filepath.Join(dir, "trackit.db"), filepath.Join(dir, "b"))
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"notes.txt",
		constants.BackupFilePrefix + "garbage" + constants.BackupFileSuffix,
		constants.BackupFilePrefix + "20260101-0900" + constants.BackupFileSuffix,
		constants.BackupFilePrefix + "20260101-090000-2" + constants.BackupFileSuffix,
	} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("ListBackups() = %d, want 2", len(backups))
	}
}

func TestListBackupsNoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "trackit.db"), "")
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 0 {
		t.Errorf("ListBackups() = %v, %v", backups, err)
	}
}

func TestEnsureDailyBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, "")
	ctx := context.Background()

	first, err := mgr.EnsureDailyBackup(ctx)
	if err != nil || first == "" {
		t.Fatalf("first EnsureDailyBackup() = %q, %v", first, err)
	}
	second, err := mgr.EnsureDailyBackup(ctx)
	if err != nil || second != "" {
		t.Errorf("second EnsureDailyBackup() = %q, %v; want no new backup", second, err)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, "")
	ctx := context.Background()

	backupPath, err := mgr.CreateBackup(ctx)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO trackers (id, name) VALUES ('t3', 'Swim')"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	mgr.now = func() time.Time { return time.Now().Add(time.Hour) }
	previous, err := mgr.RestoreBackup(ctx, backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if n := countTrackers(t, dbPath); n != 2 {
		t.Errorf("restored database has %d trackers, want 2", n)
	}
	if previous == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if n := countTrackers(t, previous); n != 3 {
		t.Errorf("pre-restore backup has %d trackers, want 3", n)
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, "")

	bad := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(bad, []byte("this is not sqlite"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(context.Background(), bad); err == nil {
		t.Error("expected error restoring corrupted backup")
	}
	if n := countTrackers(t, dbPath); n != 2 {
		t.Errorf("database modified by failed restore: %d trackers", n)
	}
	if _, err := mgr.RestoreBackup(context.Background(), fmt.Sprintf("%s/missing.db", t.TempDir())); err == nil {
		t.Error("expected error restoring missing backup")
	}
}
