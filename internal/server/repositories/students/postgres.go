package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkazakov/studentapi/internal/common"
	"github.com/dkazakov/studentapi/internal/dbx"
	"github.com/dkazakov/studentapi/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres error code for a unique-constraint breach.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, first_name, last_name, email, date_of_birth, phone_number, address, created_at, updated_at, is_active
		FROM students
		WHERE is_active
		ORDER BY last_name, first_name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	query := `
		SELECT id, first_name, last_name, email, date_of_birth, phone_number, address, created_at, updated_at, is_active
		FROM students
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)
	s, err := scanStudent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (id, first_name, last_name, email, date_of_birth, phone_number, address, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.FirstName, s.LastName, s.Email, s.DateOfBirth, s.PhoneNumber, nullableString(s.Address), s.CreatedAt, s.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $2, last_name = $3, email = $4, date_of_birth = $5, phone_number = $6, address = $7, updated_at = $8, is_active = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.FirstName, s.LastName, s.Email, s.DateOfBirth, s.PhoneNumber, nullableString(s.Address), s.UpdatedAt, s.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM students
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func scanStudent(scan func(dest ...any) error) (*models.Student, error) {
	s := &models.Student{}
	var address sql.NullString
	var updatedAt sql.NullTime
	if err := scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.PhoneNumber, &address, &s.CreatedAt, &updatedAt, &s.IsActive); err != nil {
		return nil, err
	}
	s.Address = address.String
	if updatedAt.Valid {
		s.UpdatedAt = &updatedAt.Time
	}
	return s, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
