// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/campus-concierge/internal/domain"
)

// Repository defines the interface for persisting student records.
type Repository interface {
	// GetStudent retrieves a student by username. Unknown usernames return
	// (nil, nil), not an error.
	GetStudent(ctx context.Context, username string) (*domain.StudentRecord, error)

	// UpsertStudent creates or updates a student record.
	UpsertStudent(ctx context.Context, rec *domain.StudentRecord) error

	// AllStudents returns every student record. Used to load the read-only
	// snapshot before serving begins.
	AllStudents(ctx context.Context) ([]domain.StudentRecord, error)

	// CountStudents returns the number of stored records.
	CountStudents(ctx context.Context) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
