package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// setupTestDB creates a migrated habit database holding the named habits.
func setupTestDB(t *testing.T, names ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitual.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	defer store.Close()

	for _, name := range names {
		addHabit(t, store, name)
	}
	return dbPath
}

func addHabit(t *testing.T, store *sqlite.Store, name string) {
	t.Helper()
	h, err := models.NewHabit(name, models.Daily)
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	h.Complete()
	if err := store.SaveHabit(h); err != nil {
		t.Fatalf("failed to save habit: %v", err)
	}
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to count habits: %v", err)
	}
	return count
}

// fixedManager returns a manager whose clock is frozen at a single minute.
func fixedManager(dbPath string) *Manager {
	mgr := NewManager(dbPath)
	at := time.Date(2024, 5, 17, 10, 5, 30, 0, time.Local)
	mgr.now = func() time.Time { return at }
	return mgr
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read", "Walk")

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != filepath.Join(filepath.Dir(dbPath), "backups") {
		t.Errorf("backup written outside the backups directory: %s", backupPath)
	}
	if count := countHabits(t, backupPath); count != 2 {
		t.Errorf("expected 2 habits in backup, got %d", count)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup should fail without a database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := fixedManager(dbPath)

	var newest string
	for i := 0; i < MaxBackups+5; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		newest = path
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
	if backups[0].Path != newest {
		t.Errorf("expected newest backup %s first, got %s", filepath.Base(newest), backups[0].Name())
	}
	if _, err := os.Stat(filepath.Join(mgr.GetBackupDir(), "habitual-20240517-1005.db")); !os.IsNotExist(err) {
		t.Error("oldest backup should have been rotated out")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := fixedManager(dbPath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}
	// Unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}

	want := []string{"habitual-20240517-100530-1.db", "habitual-20240517-100530.db", "habitual-20240517-1005.db"}
	if len(backups) != len(want) {
		t.Fatalf("expected %d backups, got %d", len(want), len(backups))
	}
	for i, b := range backups {
		if b.Name() != want[i] {
			t.Errorf("backup %d = %s, want %s", i, b.Name(), want[i])
		}
		if b.Size == 0 {
			t.Errorf("backup %s has size 0", b.Name())
		}
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if latest.Name() != want[0] {
		t.Errorf("Latest() = %s, want %s", latest.Name(), want[0])
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name    string
		wantOK  bool
		wantSeq int
	}{
		{name: "habitual-20240517-1005.db", wantOK: true, wantSeq: 0},
		{name: "habitual-20240517-100530.db", wantOK: true, wantSeq: 1},
		{name: "habitual-20240517-100530-12.db", wantOK: true, wantSeq: 13},
		{name: "habitual-20240517-1005-2.db", wantOK: false},
		{name: "habitual-latest.db", wantOK: false},
		{name: "other-20240517-1005.db", wantOK: false},
		{name: "habitual-20240517-1005.sqlite", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, seq, ok := parseBackupName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("parseBackupName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && seq != tt.wantSeq {
				t.Errorf("parseBackupName(%q) seq = %d, want %d", tt.name, seq, tt.wantSeq)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read", "Walk")
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	addHabit(t, store, "Stretch")
	store.Close()

	if count := countHabits(t, dbPath); count != 3 {
		t.Fatalf("expected 3 habits before restore, got %d", count)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if count := countHabits(t, dbPath); count != 2 {
		t.Errorf("expected 2 habits after restore, got %d", count)
	}
	if preRestore == "" {
		t.Fatal("expected a pre-restore backup path")
	}
	if count := countHabits(t, preRestore); count != 3 {
		t.Errorf("pre-restore backup should hold 3 habits, got %d", count)
	}
}

func TestRestoreBackupCreatesPreRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	initialCount := len(backups)

	if _, err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != initialCount+1 {
		t.Errorf("expected %d backups after restore, got %d", initialCount+1, len(backups))
	}
}

func TestRestoreBackupRejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("RestoreBackup should fail for a missing file")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(garbage); err == nil {
		t.Error("RestoreBackup should fail for a corrupt file")
	}

	if count := countHabits(t, dbPath); count != 1 {
		t.Errorf("database changed after a failed restore: %d habits", count)
	}
}

func TestVerifyBackup(t *testing.T) {
	dbPath := setupTestDB(t, "Read")
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := mgr.verifyBackup(backupPath); err != nil {
		t.Errorf("verifyBackup failed for valid backup: %v", err)
	}

	// A valid SQLite file without the habits table is rejected
	other := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", other)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if err := mgr.verifyBackup(other); err == nil {
		t.Error("verifyBackup should fail for a database without habits")
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/tmp/habitual/habitual.db")

	if got := mgr.Resolve("habitual-20240517-1005.db"); got != "/tmp/habitual/backups/habitual-20240517-1005.db" {
		t.Errorf("Resolve(name) = %s", got)
	}
	if got := mgr.Resolve("/elsewhere/copy.db"); got != "/elsewhere/copy.db" {
		t.Errorf("Resolve(path) = %s", got)
	}
}
