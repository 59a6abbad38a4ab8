// Package services contains server-side business logic. This file implements
// UserService: credential lookup and verification, login, and refresh-token
// rotation.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dkazakov/studentapi/internal/common"
	"github.com/dkazakov/studentapi/internal/server/auth"
	"github.com/dkazakov/studentapi/internal/server/config"
	"github.com/dkazakov/studentapi/internal/server/models"
	"github.com/dkazakov/studentapi/internal/server/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

// TokenBundle is what a successful login or refresh hands back: a signed
// access token, a fresh single-use refresh token, their expiries, and the
// identity's role set.
type TokenBundle struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	Roles            []string
}

// UserService holds the seeded credential records and implements the
// login/refresh flows. Credential records are read-only after construction;
// all mutable session state lives in the refresh-token store.
type UserService struct {
	users   []*models.UserAccount
	refresh *refreshtokens.Store

	secret         []byte
	issuer         string
	audience       string
	accessValidity time.Duration

	// dummyHash keeps unknown-username logins as slow as wrong-password
	// logins, closing the enumeration timing side channel.
	dummyHash []byte
}

// NewUserService constructs a UserService with the static account set and
// the given refresh-token store.
func NewUserService(cfg *config.Config, store *refreshtokens.Store) (*UserService, error) {
	seed := []struct {
		username string
		password string
		roles    []string
	}{
		{"admin", "Admin123!", []string{auth.RoleAdmin, auth.RoleUser}},
		{"staff", "Staff123!", []string{auth.RoleUser}},
	}

	users := make([]*models.UserAccount, 0, len(seed))
	for _, u := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users = append(users, &models.UserAccount{
			Username:     u.username,
			PasswordHash: hash,
			Roles:        u.roles,
		})
	}

	dummyHash, err := bcrypt.GenerateFromPassword(common.GenerateRandByteArray(32), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &UserService{
		users:          users,
		refresh:        store,
		secret:         []byte(cfg.SecretKey),
		issuer:         cfg.JWTIssuer,
		audience:       cfg.JWTAudience,
		accessValidity: cfg.AccessTokenValidityDuration,
		dummyHash:      dummyHash,
	}, nil
}

// FindByUsername returns the account for username, matched case-insensitively,
// or common.ErrorNotFound.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

// VerifyPassword compares the plaintext against the account's bcrypt hash.
func (s *UserService) VerifyPassword(user *models.UserAccount, password string) bool {
	return bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) == nil
}

// Login verifies credentials and mints a token bundle. Unknown usernames and
// wrong passwords converge on the same error and, via the dummy comparison,
// on the same cost.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenBundle, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a hash comparison so the miss costs the same as a
			// wrong password.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.VerifyPassword(user, password) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueBundle(user)
}

// Refresh rotates a refresh token: the presented token is validated and
// revoked, then a brand-new pair is issued. Tokens are single-use; of two
// racing refreshes presenting the same token exactly one wins, the other
// observes an unknown token. The presented token is revoked even when the
// account behind it no longer exists.
func (s *UserService) Refresh(ctx context.Context, token string) (*TokenBundle, error) {
	info, err := s.refresh.Validate(token)
	if err != nil {
		return nil, err
	}

	// Revoke reports whether this call removed the record; a false return
	// means a concurrent refresh already consumed it.
	if !s.refresh.Revoke(token) {
		return nil, common.ErrTokenUnknown
	}

	user, err := s.FindByUsername(ctx, info.Username)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issueBundle(user)
}

func (s *UserService) issueBundle(user *models.UserAccount) (*TokenBundle, error) {
	access, accessExpiresAt, err := auth.GenerateToken(user.Username, user.Roles, s.secret, s.issuer, s.audience, s.accessValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	info := s.refresh.Create(user.Username)

	return &TokenBundle{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     info.Token,
		RefreshExpiresAt: info.RefreshExpiresAt,
		Roles:            user.Roles,
	}, nil
}
