package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRoleResolver_UsesCurrentUserEndpoint(t *testing.T) {
	api := &stubAPI{currentUser: func(string) (*domain.User, error) {
		return &domain.User{Username: "alice", Email: "alice@x.com", Role: domain.RoleManager}, nil
	}}
	r := NewRoleResolver(api, zerolog.Nop())

	user := r.Resolve(context.Background(), "tok")
	if user.Role != domain.RoleManager || user.Email != "alice@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestRoleResolver_FallsBackToTokenClaims(t *testing.T) {
	// The default stubAPI answers /me with 404, like deployments that never
	// shipped the endpoint.
	api := &stubAPI{}
	r := NewRoleResolver(api, zerolog.Nop())

	token := signedToken(t, jwt.MapClaims{"sub": "bob@x.com", "role": "manager"})
	user := r.Resolve(context.Background(), token)
	if user.Role != domain.RoleManager {
		t.Fatalf("expected manager from claims, got %s", user.Role)
	}
	if user.Email != "bob@x.com" || user.Username != "bob" {
		t.Fatalf("unexpected identity from claims: %+v", user)
	}
}

func TestRoleResolver_ClaimsNeverEscalateUnknownRole(t *testing.T) {
	api := &stubAPI{}
	r := NewRoleResolver(api, zerolog.Nop())

	token := signedToken(t, jwt.MapClaims{"sub": "eve@x.com", "role": "superuser"})
	if user := r.Resolve(context.Background(), token); user.Role != domain.RoleEmployee {
		t.Fatalf("unknown role must degrade to employee, got %s", user.Role)
	}
}

func TestRoleResolver_OpaqueTokenDefaultsToEmployee(t *testing.T) {
	api := &stubAPI{}
	r := NewRoleResolver(api, zerolog.Nop())

	user := r.Resolve(context.Background(), "not-a-jwt")
	if user.Role != domain.RoleEmployee {
		t.Fatalf("expected employee default, got %s", user.Role)
	}
	if user.Email != "" {
		t.Fatalf("expected empty identity, got %q", user.Email)
	}
}
