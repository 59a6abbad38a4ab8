package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/dkazakov/studentapi/internal/common"
)

// APIKeyIdentityName is the fixed principal name for API-key callers.
const APIKeyIdentityName = "ApiKey"

// APIKeyVerifier checks a shared secret carried in the X-Api-Key header and,
// on match, synthesizes a fixed identity with the configured role. It never
// consults the credential store.
type APIKeyVerifier struct {
	key  string
	role string
}

// NewAPIKeyVerifier returns a verifier for the configured key and role. An
// empty key disables the scheme entirely: every request yields no-result.
func NewAPIKeyVerifier(key, role string) *APIKeyVerifier {
	return &APIKeyVerifier{key: key, role: role}
}

// Verify checks the provided header value. The comparison is constant-time
// over the full key length.
func (v *APIKeyVerifier) Verify(provided string) Result {
	if v.key == "" {
		return NoResult()
	}

	if strings.TrimSpace(provided) == "" {
		return NoResult()
	}

	if subtle.ConstantTimeCompare([]byte(provided), []byte(v.key)) != 1 {
		return Failure(common.ErrAuthenticationFailed)
	}

	return Success(&Identity{Name: APIKeyIdentityName, Roles: []string{v.role}})
}
