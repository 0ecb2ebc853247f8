package handler

import (
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// Form DTOs are validated locally before any upstream call so obviously bad
// input never leaves the building. The upstream service revalidates anyway.

type registerForm struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Role     string `form:"role"     validate:"required,oneof=manager employee"`
	Skills   string `form:"skills"`
}

// skillList splits the free-text skills field the way the original form did:
// comma separated, trimmed, empties dropped.
func (f registerForm) skillList() []string {
	if strings.TrimSpace(f.Skills) == "" {
		return nil
	}
	parts := strings.Split(f.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type createTaskForm struct {
	Title       string `form:"title"       validate:"required,max=200"`
	Description string `form:"description" validate:"required,max=2000"`
	Deadline    string `form:"deadline"`
}

type statusForm struct {
	Status string `form:"status" validate:"required,oneof=pending in-progress completed"`
}

type editTaskForm struct {
	Title       string `form:"title"       validate:"required,max=200"`
	Description string `form:"description" validate:"required,max=2000"`
	Deadline    string `form:"deadline"`
	AssignedTo  string `form:"assigned_to" validate:"omitempty,email"`
}

// parseDeadline converts the date input's yyyy-mm-dd value. An empty field
// means no deadline.
func parseDeadline(s string) (*domain.Deadline, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &domain.Deadline{Time: t}, nil
}
