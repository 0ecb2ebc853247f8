package render

import (
	"github.com/taskdeck/taskdeck/internal/core/domain"
)

// ControlKind selects the status control rendered in a row.
type ControlKind int

const (
	// ControlBadge renders the status as a read-only badge.
	ControlBadge ControlKind = iota
	// ControlSelect renders an editable tri-state selector that posts a
	// status change.
	ControlSelect
)

// controlKey drives control selection per row. Dispatching on {role, owned}
// through one table keeps the branching exhaustive instead of scattering role
// conditionals through the markup code.
type controlKey struct {
	Role  domain.Role
	Owned bool
}

type rowControls struct {
	Status  ControlKind
	Actions bool
}

var controlTable = map[controlKey]rowControls{
	{domain.RoleManager, true}:   {Status: ControlBadge, Actions: true},
	{domain.RoleManager, false}:  {Status: ControlBadge, Actions: true},
	{domain.RoleEmployee, true}:  {Status: ControlSelect, Actions: false},
	{domain.RoleEmployee, false}: {Status: ControlBadge, Actions: false},
}

const (
	deadlinePlaceholder = "—"
	noAssignee          = "Unassigned"
	deadlineFormat      = "Jan 2, 2006"
)

// TaskRow is the per-task view model. Title and description stay raw strings
// here; html/template escapes them contextually at render time.
type TaskRow struct {
	ID          int64
	Title       string
	Description string
	Deadline    string
	Assignee    string
	Status      domain.TaskStatus
	StatusLabel string
	StatusClass string
	Editable    bool
	ShowActions bool
}

// BuildRows converts a filtered task view into table rows for the given
// viewer. Order is preserved from the input.
func BuildRows(tasks []domain.Task, role domain.Role, email string) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		controls := controlTable[controlKey{Role: role, Owned: t.AssignedToUser(email)}]

		deadline := deadlinePlaceholder
		if t.Deadline != nil && !t.Deadline.IsZero() {
			deadline = t.Deadline.Format(deadlineFormat)
		}
		assignee := t.AssignedTo
		if assignee == "" {
			assignee = noAssignee
		}

		rows = append(rows, TaskRow{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Deadline:    deadline,
			Assignee:    assignee,
			Status:      t.Status,
			StatusLabel: t.Status.Label(),
			StatusClass: statusClass(t.Status),
			Editable:    controls.Status == ControlSelect,
			ShowActions: controls.Actions,
		})
	}
	return rows
}

func statusClass(s domain.TaskStatus) string {
	switch s {
	case domain.StatusCompleted:
		return "badge-completed"
	case domain.StatusInProgress:
		return "badge-in-progress"
	default:
		return "badge-pending"
	}
}

// StatusOption feeds the filter and the per-row selector.
type StatusOption struct {
	Value    domain.TaskStatus
	Label    string
	Selected bool
}

// StatusOptions returns all statuses with the current one marked.
func StatusOptions(current domain.TaskStatus) []StatusOption {
	opts := make([]StatusOption, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		opts = append(opts, StatusOption{Value: s, Label: s.Label(), Selected: s == current})
	}
	return opts
}

// DashboardPage is the full dashboard view model.
type DashboardPage struct {
	Welcome      string
	IsManager    bool
	Rows         []TaskRow
	StatusFilter domain.TaskStatus
	Statuses     []StatusOption
	Flash        string
	FlashError   string
	LoadError    string
}

// Empty reports whether the filtered view came back with no rows, which
// renders the dedicated empty-state block instead of a bare table.
func (p DashboardPage) Empty() bool { return len(p.Rows) == 0 && p.LoadError == "" }

// AuthPage backs the login and register forms.
type AuthPage struct {
	Error  string
	Notice string
	// Sticky fields so a rejected form does not lose what was typed.
	Username string
	Email    string
	Role     string
	Skills   string
}

// ErrorPage backs the catch-all error page.
type ErrorPage struct {
	Message string
}

// EditPage backs the manager's task edit form.
type EditPage struct {
	Task       TaskRow
	DeadlineIn string // yyyy-mm-dd for the date input
	Error      string
}
