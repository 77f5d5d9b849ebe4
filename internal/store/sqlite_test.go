package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ashureev/campus-concierge/internal/domain"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUpsertAndGetStudent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := &domain.StudentRecord{
		Username:        "alice",
		Email:           "alice@example.com",
		OrientationDone: "yes",
		AccessCode:      "AC-111",
	}
	if err := repo.UpsertStudent(ctx, rec); err != nil {
		t.Fatalf("UpsertStudent failed: %v", err)
	}

	got, err := repo.GetStudent(ctx, "alice")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if got.AccessCode != "AC-111" || got.Email != "alice@example.com" {
		t.Errorf("Unexpected record: %+v", got)
	}

	// Upsert updates in place.
	rec.AccessCode = "AC-999"
	if err := repo.UpsertStudent(ctx, rec); err != nil {
		t.Fatalf("second UpsertStudent failed: %v", err)
	}
	got, _ = repo.GetStudent(ctx, "alice")
	if got.AccessCode != "AC-999" {
		t.Errorf("AccessCode = %q, want AC-999", got.AccessCode)
	}
}

func TestGetStudent_Unknown(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetStudent(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown username, got %+v", got)
	}
}

func TestSeedStudents_FromCSV(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	csvPath := filepath.Join(t.TempDir(), "students.csv")
	data := "username,email,orientation_done,access_codes\n" +
		"carol,carol@example.com,yes,AC-333\n" +
		",skipme@example.com,no,AC-000\n"
	if err := os.WriteFile(csvPath, []byte(data), 0644); err != nil {
		t.Fatalf("write CSV: %v", err)
	}

	if err := SeedStudents(ctx, repo, csvPath); err != nil {
		t.Fatalf("SeedStudents failed: %v", err)
	}

	all, err := repo.AllStudents(ctx)
	if err != nil {
		t.Fatalf("AllStudents failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 record (blank username skipped), got %d", len(all))
	}
	if all[0].Username != "carol" {
		t.Errorf("Username = %q, want carol", all[0].Username)
	}
}

func TestSeedStudents_DefaultsWhenCSVMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := SeedStudents(ctx, repo, filepath.Join(t.TempDir(), "missing.csv")); err != nil {
		t.Fatalf("SeedStudents failed: %v", err)
	}
	n, err := repo.CountStudents(ctx)
	if err != nil {
		t.Fatalf("CountStudents failed: %v", err)
	}
	if n != int64(len(defaultStudents)) {
		t.Errorf("Count = %d, want %d defaults", n, len(defaultStudents))
	}

	// Re-seeding is a no-op once populated.
	if err := SeedStudents(ctx, repo, filepath.Join(t.TempDir(), "missing.csv")); err != nil {
		t.Fatalf("second SeedStudents failed: %v", err)
	}
	n2, _ := repo.CountStudents(ctx)
	if n2 != n {
		t.Errorf("Re-seed changed count from %d to %d", n, n2)
	}
}
