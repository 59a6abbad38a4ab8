// Package students declares the repository contract for student records.
package students

import (
	"context"

	"github.com/dkazakov/studentapi/internal/server/models"
)

// Repository defines persistence operations for student records.
type Repository interface {
	// List returns active students ordered by last name, then first name.
	List(ctx context.Context) ([]*models.Student, error)

	// Get returns the student with the given ID or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Student, error)

	// Create inserts a new student. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, s *models.Student) error

	// Update rewrites a student's mutable fields. A missing ID yields
	// common.ErrorNotFound.
	Update(ctx context.Context, s *models.Student) error

	// Delete removes the student with the given ID. A missing ID yields
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
