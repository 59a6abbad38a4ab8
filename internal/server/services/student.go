package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dkazakov/studentapi/internal/dbx"
	"github.com/dkazakov/studentapi/internal/server/models"
	"github.com/dkazakov/studentapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// StudentService provides student CRUD on top of the repository layer.
type StudentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStudentService(db *sql.DB, m repomanager.RepositoryManager) *StudentService {
	return &StudentService{db: db, repomanager: m}
}

// List returns the active students ordered by last name, then first name.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	repo := s.repomanager.Students(s.db)
	return repo.List(ctx)
}

// Get returns a single student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	repo := s.repomanager.Students(s.db)
	return repo.Get(ctx, id)
}

// Create assigns the record a fresh ID and creation timestamp and persists it.
func (s *StudentService) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	student.ID = uuid.NewString()
	student.CreatedAt = time.Now().UTC()
	student.UpdatedAt = nil
	student.IsActive = true

	repo := s.repomanager.Students(s.db)
	if err := repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Update rewrites the student's mutable fields, stamps updated_at, and reads
// the record back within the same transaction.
func (s *StudentService) Update(ctx context.Context, student *models.Student) (*models.Student, error) {
	now := time.Now().UTC()
	student.UpdatedAt = &now

	var updated *models.Student
	err := s.repomanager.InTransaction(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Students(tx)
		if err := repo.Update(ctx, student); err != nil {
			return err
		}
		var err error
		updated, err = repo.Get(ctx, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the student by ID.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Students(s.db)
	return repo.Delete(ctx, id)
}
