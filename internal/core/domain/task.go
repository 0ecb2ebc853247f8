package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
// The hyphenated spelling of in-progress is the upstream wire format.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus validates a status string coming from a form or query parameter.
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Label returns the human-readable form shown in the UI.
func (s TaskStatus) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case "":
		return ""
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}

// Deadline is an optional calendar date. The upstream API emits either a bare
// date or a full RFC 3339 timestamp depending on how the task was created, so
// unmarshalling accepts both.
type Deadline struct {
	time.Time
}

const deadlineWire = "2006-01-02"

func (d *Deadline) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{deadlineWire, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid deadline %q", s)
}

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(deadlineWire) + `"`), nil
}

// Task is the upstream-owned aggregate. The client holds a read-mostly cached
// copy that is replaced wholesale after every mutation, never patched.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *Deadline  `json:"deadline,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Status      TaskStatus `json:"status"`
}

// Assigned reports whether the task has an assignee at all.
func (t Task) Assigned() bool { return t.AssignedTo != "" }

// AssignedToUser reports whether the task belongs to the given user email.
func (t Task) AssignedToUser(email string) bool {
	return email != "" && t.AssignedTo == email
}
