package students

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkazakov/studentapi/internal/common"
	"github.com/dkazakov/studentapi/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func studentColumns() []string {
	return []string{"id", "first_name", "last_name", "email", "date_of_birth", "phone_number", "address", "created_at", "updated_at", "is_active"}
}

func TestList_ScansRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows(studentColumns()).
		AddRow("id-1", "Ada", "Lovelace", "ada@example.com", now, "+1-555-0100", "12 Byron St", now, nil, true).
		AddRow("id-2", "Alan", "Turing", "alan@example.com", now, "+1-555-0101", nil, now, now, true)

	mock.ExpectQuery(`SELECT (.+) FROM students`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 students, got %d", len(got))
	}
	if got[0].Address != "12 Byron St" {
		t.Fatalf("address mismatch: %q", got[0].Address)
	}
	if got[1].Address != "" || got[1].UpdatedAt == nil {
		t.Fatalf("nullable scan mismatch: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM students`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(studentColumns()))

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO students`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Student{
		ID: "id-1", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", CreatedAt: time.Now(), IsActive: true,
	})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE students`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Student{ID: "missing"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM students`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "id-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(`DELETE FROM students`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "gone"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
