package service

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/metrics"
)

// RoleResolver determines who the current user is. The current-user endpoint
// may not be deployed upstream, so resolution degrades in two documented
// steps: GET /me, then an unverified read of the bearer token's claims (the
// upstream login signs sub=email and role into it), then the least-privileged
// employee default. None of this is an authorization boundary; the upstream
// service enforces permissions on every call regardless of what we display.
type RoleResolver struct {
	api ports.UpstreamAPI
	log zerolog.Logger
}

func NewRoleResolver(api ports.UpstreamAPI, log zerolog.Logger) *RoleResolver {
	return &RoleResolver{api: api, log: log}
}

// Resolve never fails: a dashboard load must not block on role resolution.
func (r *RoleResolver) Resolve(ctx context.Context, token string) domain.User {
	user, err := r.api.CurrentUser(ctx, token)
	if err == nil {
		return *user
	}
	r.log.Info().Err(err).Msg("current-user endpoint unavailable, falling back to token claims")

	if u, ok := userFromClaims(token); ok {
		metrics.RoleFallbacksTotal.WithLabelValues("claims").Inc()
		return u
	}

	metrics.RoleFallbacksTotal.WithLabelValues("default").Inc()
	return domain.User{Role: domain.RoleEmployee}
}

// userFromClaims reads sub and role out of the token without verifying the
// signature. The signature belongs to the upstream service; here the claims
// are advisory display data only.
func userFromClaims(token string) (domain.User, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.User{}, false
	}

	email, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if email == "" && role == "" {
		return domain.User{}, false
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	return domain.User{
		Username: username,
		Email:    email,
		Role:     domain.ParseRole(role),
	}, true
}
