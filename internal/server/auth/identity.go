// Package auth implements the authentication core: access-token minting and
// verification, the API-key and bearer verifiers, header-based scheme
// selection, and role-based policy evaluation.
package auth

// Identity is the authenticated principal for one request. Immutable once
// produced by a verifier.
type Identity struct {
	Name  string
	Roles []string
}

// HasRole reports whether the identity carries the exact role. Role sets are
// flat; there is no hierarchy.
func (id *Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Status tags the outcome of a verifier run.
type Status int

const (
	// StatusNoResult means the scheme did not attempt authentication
	// (no credential presented, or the scheme is disabled).
	StatusNoResult Status = iota
	// StatusFailure means a credential of this scheme was presented and rejected.
	StatusFailure
	// StatusSuccess means the verifier produced an identity.
	StatusSuccess
)

// Result is the tagged outcome of a verifier: exactly one of the three
// states, with Identity set on success and Err set on failure. Callers map
// both no-result and failure to the same outward unauthorized response; the
// distinction exists for logging and scheme composition.
type Result struct {
	Status   Status
	Identity *Identity
	Err      error
}

func NoResult() Result            { return Result{Status: StatusNoResult} }
func Failure(err error) Result    { return Result{Status: StatusFailure, Err: err} }
func Success(id *Identity) Result { return Result{Status: StatusSuccess, Identity: id} }
