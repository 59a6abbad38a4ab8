package auth

import (
	"strings"

	"github.com/dkazakov/studentapi/internal/common"
)

// BearerVerifier validates "Authorization: Bearer <jwt>" credentials against
// the process signing key and claim requirements.
type BearerVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewBearerVerifier(secret []byte, issuer, audience string) *BearerVerifier {
	return &BearerVerifier{secret: secret, issuer: issuer, audience: audience}
}

// Verify inspects the raw Authorization header value. A missing header is
// no-result; a malformed or rejected token is a failure carrying the token
// lifecycle error for logging.
func (v *BearerVerifier) Verify(header string) Result {
	if header == "" {
		return NoResult()
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Failure(common.ErrInvalidToken)
	}

	claims, err := ParseToken(token, v.secret, v.issuer, v.audience)
	if err != nil {
		return Failure(err)
	}

	return Success(&Identity{Name: claims.Subject, Roles: claims.Roles})
}
