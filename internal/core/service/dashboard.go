package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
)

// DashboardState names the stops of the dashboard load pipeline. A load walks
// Init → RoleResolving → Loading → Ready; AuthFailed is terminal and reachable
// from any point, LoadFailed keeps the page alive with a retry prompt.
type DashboardState int

const (
	StateInit DashboardState = iota
	StateRoleResolving
	StateLoading
	StateReady
	StateLoadFailed
	StateAuthFailed
)

func (s DashboardState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRoleResolving:
		return "role_resolving"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load_failed"
	case StateAuthFailed:
		return "auth_failed"
	}
	return "unknown"
}

// Dashboard is the result of one load: the resolved user, the full collection
// as the upstream returned it, and the filtered view derived from it.
type Dashboard struct {
	State        DashboardState
	User         domain.User
	All          []domain.Task
	Filtered     []domain.Task
	StatusFilter domain.TaskStatus
	Err          error
}

// DashboardService orchestrates the per-request load pipeline.
type DashboardService struct {
	api      ports.UpstreamAPI
	resolver *RoleResolver
	log      zerolog.Logger
}

func NewDashboardService(api ports.UpstreamAPI, resolver *RoleResolver, log zerolog.Logger) *DashboardService {
	return &DashboardService{api: api, resolver: resolver, log: log}
}

// Load runs the full pipeline for one page view. It never returns a Go error:
// the outcome, including failures, is encoded in the Dashboard state so the
// handler can decide between rendering and redirecting.
func (s *DashboardService) Load(ctx context.Context, token string, statusFilter domain.TaskStatus) Dashboard {
	d := Dashboard{State: StateInit, StatusFilter: statusFilter}
	if token == "" {
		d.State = StateAuthFailed
		return d
	}

	d.State = StateRoleResolving
	d.User = s.resolver.Resolve(ctx, token)

	d.State = StateLoading
	tasks, err := s.api.ListTasks(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			s.log.Info().Msg("task list rejected, session invalid")
			d.State = StateAuthFailed
			return d
		}
		s.log.Error().Err(err).Msg("task list failed")
		d.State = StateLoadFailed
		d.Err = err
		return d
	}

	d.All = tasks
	d.Filtered = FilterTasks(tasks, d.User.Role, d.User.Email, statusFilter)
	d.State = StateReady
	return d
}
