package auth

import "net/http"

// APIKeyHeader is the designated header whose presence selects the API-key
// scheme for a request.
const APIKeyHeader = "X-Api-Key"

// Scheme enumerates the supported authentication schemes.
type Scheme int

const (
	SchemeBearer Scheme = iota
	SchemeAPIKey
)

// SelectScheme picks the scheme from header presence alone, not its value.
// Selection happens before either verifier runs, so a request can never
// partially match both schemes.
func SelectScheme(h http.Header) Scheme {
	if len(h.Values(APIKeyHeader)) > 0 {
		return SchemeAPIKey
	}
	return SchemeBearer
}

// Authenticator dispatches each request to exactly one verifier based on
// SelectScheme.
type Authenticator struct {
	apiKey *APIKeyVerifier
	bearer *BearerVerifier
}

func NewAuthenticator(apiKey *APIKeyVerifier, bearer *BearerVerifier) *Authenticator {
	return &Authenticator{apiKey: apiKey, bearer: bearer}
}

// Authenticate runs the selected verifier against the request headers.
func (a *Authenticator) Authenticate(h http.Header) Result {
	switch SelectScheme(h) {
	case SchemeAPIKey:
		return a.apiKey.Verify(h.Get(APIKeyHeader))
	default:
		return a.bearer.Verify(h.Get("Authorization"))
	}
}
