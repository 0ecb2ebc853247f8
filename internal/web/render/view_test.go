package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/internal/core/domain"
)

func TestBuildRows_ControlDispatch(t *testing.T) {
	tasks := []domain.Task{
		{ID: 1, Title: "mine", AssignedTo: "a@x.com", Status: domain.StatusPending},
		{ID: 2, Title: "theirs", AssignedTo: "b@x.com", Status: domain.StatusPending},
		{ID: 3, Title: "unassigned", Status: domain.StatusPending},
	}

	employee := BuildRows(tasks, domain.RoleEmployee, "a@x.com")
	if !employee[0].Editable {
		t.Fatalf("employee's own task must be editable")
	}
	if employee[1].Editable || employee[2].Editable {
		t.Fatalf("only owned tasks are editable for employees")
	}
	for _, row := range employee {
		if row.ShowActions {
			t.Fatalf("employees never see edit/delete actions")
		}
	}

	manager := BuildRows(tasks, domain.RoleManager, "m@x.com")
	for _, row := range manager {
		if row.Editable {
			t.Fatalf("managers get badges, not selectors")
		}
		if !row.ShowActions {
			t.Fatalf("managers always see actions")
		}
	}
}

func TestBuildRows_Placeholders(t *testing.T) {
	deadline := &domain.Deadline{}
	if err := deadline.UnmarshalJSON([]byte(`"2025-03-14"`)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	rows := BuildRows([]domain.Task{
		{ID: 1, Title: "a", Status: domain.StatusPending},
		{ID: 2, Title: "b", Deadline: deadline, AssignedTo: "a@x.com", Status: domain.StatusPending},
	}, domain.RoleManager, "")

	if rows[0].Deadline != "—" || rows[0].Assignee != "Unassigned" {
		t.Fatalf("missing placeholders: %+v", rows[0])
	}
	if rows[1].Deadline != "Mar 14, 2025" || rows[1].Assignee != "a@x.com" {
		t.Fatalf("formatted values wrong: %+v", rows[1])
	}
}

func TestStatusOptions(t *testing.T) {
	opts := StatusOptions(domain.StatusInProgress)
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	for _, o := range opts {
		if o.Selected != (o.Value == domain.StatusInProgress) {
			t.Fatalf("selection wrong for %s", o.Value)
		}
	}
}

func renderPage(t *testing.T, name string, data any) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data, nil); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func dashboardPage(rows []TaskRow) DashboardPage {
	return DashboardPage{
		Welcome:  "Welcome, a (Employee)",
		Rows:     rows,
		Statuses: StatusOptions(""),
	}
}

func TestDashboard_EscapesUserText(t *testing.T) {
	rows := BuildRows([]domain.Task{{
		ID:          1,
		Title:       `<script>alert(1)</script>`,
		Description: `<img src=x onerror=alert(2)>`,
		AssignedTo:  "a@x.com",
		Status:      domain.StatusPending,
	}}, domain.RoleEmployee, "a@x.com")

	out := renderPage(t, "dashboard.html", dashboardPage(rows))
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("task title rendered as live markup")
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("task title not rendered as literal text:\n%s", out)
	}
	if strings.Contains(out, "<img src=x") {
		t.Fatalf("description rendered as live markup")
	}
}

func TestDashboard_EditableRowRendersSelector(t *testing.T) {
	rows := BuildRows([]domain.Task{
		{ID: 1, Title: "mine", AssignedTo: "a@x.com", Status: domain.StatusPending},
	}, domain.RoleEmployee, "a@x.com")

	out := renderPage(t, "dashboard.html", dashboardPage(rows))
	if !strings.Contains(out, `action="/tasks/1/status"`) {
		t.Fatalf("expected status form for owned task")
	}
	if !strings.Contains(out, `<option value="pending" selected>Pending</option>`) {
		t.Fatalf("selector must default to the task's current status:\n%s", out)
	}
}

func TestDashboard_ReadOnlyBadgeForForeignTask(t *testing.T) {
	rows := BuildRows([]domain.Task{
		{ID: 2, Title: "theirs", AssignedTo: "b@x.com", Status: domain.StatusCompleted},
	}, domain.RoleManager, "m@x.com")

	out := renderPage(t, "dashboard.html", dashboardPage(rows))
	if strings.Contains(out, `action="/tasks/2/status"`) {
		t.Fatalf("manager rows must not carry a status form")
	}
	if !strings.Contains(out, "badge-completed") {
		t.Fatalf("expected completed badge")
	}
	if !strings.Contains(out, `action="/tasks/2/delete"`) {
		t.Fatalf("manager rows carry a delete action")
	}
}

func TestDashboard_EmptyState(t *testing.T) {
	out := renderPage(t, "dashboard.html", dashboardPage(nil))
	if !strings.Contains(out, "No tasks to show.") {
		t.Fatalf("empty filtered view must render the empty state")
	}
	if strings.Contains(out, "<tbody>") {
		t.Fatalf("empty view must not render a bare table")
	}
}

func TestDashboard_LoadErrorWithRetry(t *testing.T) {
	page := dashboardPage(nil)
	page.LoadError = "Could not reach the task service. Please retry."
	out := renderPage(t, "dashboard.html", page)
	if !strings.Contains(out, "Could not reach the task service") {
		t.Fatalf("load error not surfaced")
	}
	if !strings.Contains(out, "Retry") {
		t.Fatalf("load error must offer a retry link")
	}
}

func TestLoginPage_Renders(t *testing.T) {
	out := renderPage(t, "login.html", AuthPage{Notice: "Account created.", Email: "a@x.com"})
	if !strings.Contains(out, "Account created.") || !strings.Contains(out, `value="a@x.com"`) {
		t.Fatalf("login page missing notice or sticky email:\n%s", out)
	}
}
