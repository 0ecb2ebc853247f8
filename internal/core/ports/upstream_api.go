package ports

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// RegisterInput carries a registration request to the upstream API.
// Skills are only meaningful for the employee role.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
	Skills   []string
}

// CreateTaskInput carries the fields a manager supplies for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *domain.Deadline
}

// UpdateTaskInput is a partial update; nil fields are left untouched upstream.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Deadline    *domain.Deadline
	Status      *domain.TaskStatus
	AssignedTo  *string
}

// UpstreamAPI is the contract of the remote task service. Every call is a
// single request/response cycle with no retries; failures come back as
// *domain.UpstreamError.
type UpstreamAPI interface {
	// Register creates an account and returns the upstream confirmation message.
	Register(ctx context.Context, in RegisterInput) (string, error)
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// CurrentUser fetches the authenticated user. The endpoint may not be
	// deployed upstream; callers must treat failure as recoverable.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	// ListTasks returns the full task collection in server order.
	// An empty slice is a valid result, distinct from an error.
	ListTasks(ctx context.Context, token string) ([]domain.Task, error)
	CreateTask(ctx context.Context, token string, in CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, token string, id int64, in UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, token string, id int64) error
}
