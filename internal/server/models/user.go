package models

// UserAccount is a static credential record seeded at startup. Username is
// the key; lookups are case-insensitive.
type UserAccount struct {
	Username     string
	PasswordHash []byte
	Roles        []string
}
