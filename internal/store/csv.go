package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ashureev/campus-concierge/internal/domain"
)

// defaultStudents seeds the database when no CSV is present and the
// students table is empty, so a fresh checkout serves something useful.
var defaultStudents = []domain.StudentRecord{
	{Username: "alice", Email: "alice@example.com", OrientationDone: "yes", AccessCode: "AC-111"},
	{Username: "bob", Email: "bob@example.com", OrientationDone: "no", AccessCode: "AC-222"},
}

// SeedStudents imports student records from csvPath into the repository.
// A missing file falls back to the built-in default rows. Seeding is
// skipped entirely when the table already has records.
func SeedStudents(ctx context.Context, repo Repository, csvPath string) error {
	n, err := repo.CountStudents(ctx)
	if err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if n > 0 {
		slog.Info("Student table already seeded", "count", n)
		return nil
	}

	records, err := readStudentCSV(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("No student CSV found, seeding defaults", "path", csvPath)
		records = defaultStudents
	} else if err != nil {
		return err
	}

	for i := range records {
		if err := repo.UpsertStudent(ctx, &records[i]); err != nil {
			return fmt.Errorf("seed student %q: %w", records[i].Username, err)
		}
	}
	slog.Info("Student table seeded", "count", len(records))
	return nil
}

// readStudentCSV parses rows of username,email,orientation_done,access_codes.
func readStudentCSV(path string) ([]domain.StudentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"username", "email", "orientation_done", "access_codes"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("CSV missing column %q", required)
		}
	}

	var out []domain.StudentRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		username := row[col["username"]]
		if username == "" {
			continue
		}
		out = append(out, domain.StudentRecord{
			Username:        username,
			Email:           row[col["email"]],
			OrientationDone: row[col["orientation_done"]],
			AccessCode:      row[col["access_codes"]],
		})
	}
	return out, nil
}
