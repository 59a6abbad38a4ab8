package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dkazakov/studentapi/internal/common"
	"github.com/dkazakov/studentapi/internal/dbx"
	"github.com/dkazakov/studentapi/internal/server/models"
	studentsrepo "github.com/dkazakov/studentapi/internal/server/repositories/students"
)

// --- fakes ---

type fakeStudentsRepo struct {
	byID map[string]*models.Student

	createErr error
}

func newFakeStudentsRepo() *fakeStudentsRepo {
	return &fakeStudentsRepo{byID: map[string]*models.Student{}}
}

func (f *fakeStudentsRepo) List(ctx context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.byID {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentsRepo) Get(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeStudentsRepo) Create(ctx context.Context, s *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStudentsRepo) Update(ctx context.Context, s *models.Student) error {
	if _, ok := f.byID[s.ID]; !ok {
		return common.ErrorNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStudentsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRepoManager struct {
	students *fakeStudentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Students(db dbx.DBTX) studentsrepo.Repository {
	return m.students
}
func (m *fakeRepoManager) InTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func newTestStudentService() (*StudentService, *fakeStudentsRepo) {
	repo := newFakeStudentsRepo()
	return NewStudentService(nil, &fakeRepoManager{students: repo}), repo
}

// --- tests ---

func TestStudentCreate_AssignsIdentity(t *testing.T) {
	s, repo := newTestStudentService()

	created, err := s.Create(context.Background(), &models.Student{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned ID")
	}
	if created.CreatedAt.IsZero() || !created.IsActive {
		t.Fatalf("unexpected defaults: %+v", created)
	}
	if _, ok := repo.byID[created.ID]; !ok {
		t.Fatalf("record not persisted")
	}
}

func TestStudentCreate_DuplicateEmail(t *testing.T) {
	s, repo := newTestStudentService()
	repo.createErr = common.ErrorAlreadyExists

	_, err := s.Create(context.Background(), &models.Student{Email: "dup@example.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestStudentUpdate_StampsUpdatedAt(t *testing.T) {
	s, _ := newTestStudentService()

	created, err := s.Create(context.Background(), &models.Student{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	created.FirstName = "Renamed"
	updated, err := s.Update(context.Background(), created)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("expected updated_at to be stamped")
	}
	if updated.FirstName != "Renamed" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestStudentUpdate_Missing(t *testing.T) {
	s, _ := newTestStudentService()

	_, err := s.Update(context.Background(), &models.Student{ID: "missing"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestStudentDelete(t *testing.T) {
	s, _ := newTestStudentService()

	created, err := s.Create(context.Background(), &models.Student{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Delete(context.Background(), created.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
