package models

import "time"

// RefreshToken is a single-use opaque credential mapped to a username. It is
// owned exclusively by the refresh-token store; a record disappears once
// consumed, revoked, or found expired.
type RefreshToken struct {
	Token            string
	Username         string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
