// Package refreshtokens implements the in-memory refresh-token store. Tokens
// are opaque single-use credentials: a record exists only between creation
// and its consumption, revocation, or lazy expiry eviction.
//
// The store is process-local; restarting the server discards all live
// refresh tokens.
package refreshtokens

import (
	"strings"
	"sync"
	"time"

	"github.com/dkazakov/studentapi/internal/common"
	"github.com/dkazakov/studentapi/internal/server/models"
)

// tokenByteLength is the entropy of a refresh token before base64 encoding.
const tokenByteLength = 64

// Store owns the live refresh-token records, keyed by token value. All
// mutations are atomic per key; operations on unrelated tokens never
// contend on a shared lock.
type Store struct {
	accessValidity  time.Duration
	refreshValidity time.Duration
	tokens          sync.Map // token string -> *models.RefreshToken

	now func() time.Time
}

func NewStore(accessValidity, refreshValidity time.Duration) *Store {
	return &Store{
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
		now:             time.Now,
	}
}

// Create mints a new refresh token for username from the process CSPRNG and
// stores its record. Both expiry timestamps are computed here so the record
// fully describes the session window it belongs to.
func (s *Store) Create(username string) *models.RefreshToken {
	now := s.now()
	info := &models.RefreshToken{
		Token:            common.MakeRandBase64String(tokenByteLength),
		Username:         username,
		AccessExpiresAt:  now.Add(s.accessValidity),
		RefreshExpiresAt: now.Add(s.refreshValidity),
	}
	s.tokens.Store(info.Token, info)
	return info
}

// Validate looks up a token and returns its record unmodified. Empty or
// whitespace input is rejected without touching the store. A record past its
// refresh expiry is evicted on the spot and reported as expired; there is no
// background sweep.
func (s *Store) Validate(token string) (*models.RefreshToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, common.ErrTokenUnknown
	}

	v, ok := s.tokens.Load(token)
	if !ok {
		return nil, common.ErrTokenUnknown
	}

	info := v.(*models.RefreshToken)
	if info.RefreshExpiresAt.Before(s.now()) {
		// CompareAndDelete so a concurrent re-issue under the same key
		// (vanishingly unlikely, but possible) is left alone.
		s.tokens.CompareAndDelete(token, v)
		return nil, common.ErrTokenExpired
	}

	return info, nil
}

// Revoke removes the token and reports whether this call removed it. The
// report is what resolves two racing refreshes presenting the same token:
// only the caller that actually removed the record may mint a replacement,
// the loser observes false and must treat the token as unknown. Revoking a
// missing or empty token is a no-op.
func (s *Store) Revoke(token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	_, loaded := s.tokens.LoadAndDelete(token)
	return loaded
}

// Len reports the number of live records.
func (s *Store) Len() int {
	n := 0
	s.tokens.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
