package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/metrics"
)

// FilterTasks derives the role- and status-restricted view of a task
// collection. Employees see only tasks assigned to them or unassigned;
// managers see everything. A non-empty statusFilter then restricts by status.
// The two predicates are independent, so applying them in either order yields
// the same set. Source order is preserved and the input slice is never
// mutated.
func FilterTasks(tasks []domain.Task, role domain.Role, email string, statusFilter domain.TaskStatus) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if role == domain.RoleEmployee && t.Assigned() && !t.AssignedToUser(email) {
			continue
		}
		if statusFilter != "" && t.Status != statusFilter {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TaskService performs the mutating task operations. Every mutation runs
// under the submit guard so a double-click cannot issue the same upstream
// call twice, and callers re-fetch the full collection afterwards instead of
// patching local state.
type TaskService struct {
	api   ports.UpstreamAPI
	guard ports.SubmitGuard
	log   zerolog.Logger
}

func NewTaskService(api ports.UpstreamAPI, guard ports.SubmitGuard, log zerolog.Logger) *TaskService {
	return &TaskService{api: api, guard: guard, log: log}
}

func (s *TaskService) Create(ctx context.Context, token string, in ports.CreateTaskInput) (*domain.Task, error) {
	key := guardKey(token, "create", in.Title)
	if err := s.acquire(ctx, "create", key); err != nil {
		return nil, err
	}
	defer s.release(ctx, key)

	task, err := s.api.CreateTask(ctx, token, in)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("task_id", task.ID).Str("title", task.Title).Msg("task created")
	return task, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, token string, id int64, status domain.TaskStatus) error {
	key := guardKey(token, "status", fmt.Sprintf("%d:%s", id, status))
	if err := s.acquire(ctx, "status", key); err != nil {
		return err
	}
	defer s.release(ctx, key)

	if _, err := s.api.UpdateTask(ctx, token, id, ports.UpdateTaskInput{Status: &status}); err != nil {
		return err
	}
	s.log.Info().Int64("task_id", id).Str("status", string(status)).Msg("task status updated")
	return nil
}

func (s *TaskService) Edit(ctx context.Context, token string, id int64, in ports.UpdateTaskInput) error {
	key := guardKey(token, "edit", fmt.Sprintf("%d", id))
	if err := s.acquire(ctx, "edit", key); err != nil {
		return err
	}
	defer s.release(ctx, key)

	if _, err := s.api.UpdateTask(ctx, token, id, in); err != nil {
		return err
	}
	s.log.Info().Int64("task_id", id).Msg("task edited")
	return nil
}

func (s *TaskService) Delete(ctx context.Context, token string, id int64) error {
	key := guardKey(token, "delete", fmt.Sprintf("%d", id))
	if err := s.acquire(ctx, "delete", key); err != nil {
		return err
	}
	defer s.release(ctx, key)

	if err := s.api.DeleteTask(ctx, token, id); err != nil {
		return err
	}
	s.log.Info().Int64("task_id", id).Msg("task deleted")
	return nil
}

func (s *TaskService) acquire(ctx context.Context, action, key string) error {
	ok, err := s.guard.Acquire(ctx, key)
	if err != nil {
		// A broken guard backend must not take the dashboard down with it.
		s.log.Warn().Err(err).Msg("submit guard unavailable, allowing mutation")
		return nil
	}
	if !ok {
		metrics.DuplicateSubmitsTotal.WithLabelValues(action).Inc()
		return domain.ErrDuplicateSubmit
	}
	return nil
}

func (s *TaskService) release(ctx context.Context, key string) {
	if err := s.guard.Release(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("submit guard release failed")
	}
}

// guardKey scopes the guard to one session and one logical mutation. The
// token is hashed so bearer credentials never appear in Redis keys or logs.
func guardKey(token, action, detail string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("submit:%x:%s:%s", sum[:8], action, detail)
}
