package models

import "time"

type Student struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	PhoneNumber string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsActive    bool
}
