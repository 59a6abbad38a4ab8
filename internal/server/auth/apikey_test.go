package auth

import (
	"errors"
	"testing"

	"github.com/dkazakov/studentapi/internal/common"
)

func TestAPIKeyVerifier_Match(t *testing.T) {
	t.Parallel()

	v := NewAPIKeyVerifier("s3cret", RoleAdmin)
	res := v.Verify("s3cret")
	if res.Status != StatusSuccess {
		t.Fatalf("expected success, got %v (err=%v)", res.Status, res.Err)
	}
	if res.Identity.Name != APIKeyIdentityName {
		t.Fatalf("identity name mismatch: %q", res.Identity.Name)
	}
	if !res.Identity.HasRole(RoleAdmin) {
		t.Fatalf("expected configured role on identity, got %v", res.Identity.Roles)
	}
}

func TestAPIKeyVerifier_Mismatch(t *testing.T) {
	t.Parallel()

	v := NewAPIKeyVerifier("s3cret", RoleAdmin)
	res := v.Verify("wrong")
	if res.Status != StatusFailure {
		t.Fatalf("expected failure, got %v", res.Status)
	}
	if !errors.Is(res.Err, common.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", res.Err)
	}
}

func TestAPIKeyVerifier_BlankValueIsNoResult(t *testing.T) {
	t.Parallel()

	v := NewAPIKeyVerifier("s3cret", RoleAdmin)
	for _, provided := range []string{"", "   "} {
		if res := v.Verify(provided); res.Status != StatusNoResult {
			t.Fatalf("expected no-result for %q, got %v", provided, res.Status)
		}
	}
}

func TestAPIKeyVerifier_DisabledSchemeNeverAuthenticates(t *testing.T) {
	t.Parallel()

	v := NewAPIKeyVerifier("", RoleAdmin)
	for _, provided := range []string{"", "anything", "   "} {
		res := v.Verify(provided)
		if res.Status != StatusNoResult {
			t.Fatalf("disabled scheme must yield no-result for %q, got %v", provided, res.Status)
		}
	}
}
