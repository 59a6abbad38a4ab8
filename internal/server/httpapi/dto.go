package httpapi

import (
	"net/mail"
	"strings"
	"time"

	"github.com/dkazakov/studentapi/internal/server/models"
	"github.com/dkazakov/studentapi/internal/server/services"
)

// apiResponse is the uniform envelope for every JSON response.
type apiResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Roles            []string  `json:"roles"`
}

type studentRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type studentResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	DateOfBirth string     `json:"date_of_birth"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	IsActive    bool       `json:"is_active"`
}

const dateOnly = "2006-01-02"

// validate checks the request fields and returns one message per violation.
func (r *studentRequest) validate() []string {
	var errs []string

	if n := len(strings.TrimSpace(r.FirstName)); n < 2 || n > 100 {
		errs = append(errs, "first name must be between 2 and 100 characters")
	}
	if n := len(strings.TrimSpace(r.LastName)); n < 2 || n > 100 {
		errs = append(errs, "last name must be between 2 and 100 characters")
	}
	if r.Email == "" || len(r.Email) > 255 {
		errs = append(errs, "email is required and must be at most 255 characters")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, "invalid email address")
	}
	if _, err := r.dateOfBirth(); err != nil {
		errs = append(errs, "date of birth is required in YYYY-MM-DD form")
	}
	if r.PhoneNumber == "" || len(r.PhoneNumber) > 20 {
		errs = append(errs, "phone number is required and must be at most 20 characters")
	}
	if len(r.Address) > 500 {
		errs = append(errs, "address must be at most 500 characters")
	}

	return errs
}

func (r *studentRequest) dateOfBirth() (time.Time, error) {
	return time.Parse(dateOnly, r.DateOfBirth)
}

func (r *studentRequest) toModel() *models.Student {
	dob, _ := r.dateOfBirth() // validate ran first
	return &models.Student{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       r.Email,
		DateOfBirth: dob,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
}

func toStudentResponse(s *models.Student) studentResponse {
	return studentResponse{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth.Format(dateOnly),
		PhoneNumber: s.PhoneNumber,
		Address:     s.Address,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		IsActive:    s.IsActive,
	}
}

func toTokenResponse(b *services.TokenBundle) tokenResponse {
	return tokenResponse{
		AccessToken:      b.AccessToken,
		AccessExpiresAt:  b.AccessExpiresAt,
		RefreshToken:     b.RefreshToken,
		RefreshExpiresAt: b.RefreshExpiresAt,
		Roles:            b.Roles,
	}
}
