package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/infrastructure/config"
	"github.com/taskdeck/taskdeck/internal/infrastructure/guard"
	"github.com/taskdeck/taskdeck/internal/infrastructure/session"
)

// fakeAPI emulates the upstream task service for end-to-end handler tests.
// Behaviour is adjusted per stage through its fields.
type fakeAPI struct {
	tasks     []domain.Task
	meErr     error
	listErr   error
	deleteErr error

	deleteCalls int
}

func (f *fakeAPI) Register(context.Context, ports.RegisterInput) (string, error) {
	return "User registered successfully", nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (string, error) {
	if password != "pw" {
		return "", &domain.UpstreamError{Kind: domain.ErrAuth, Status: 401, Detail: "Invalid credentials"}
	}
	claims := jwt.MapClaims{"sub": email, "role": "employee"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	if err != nil {
		return "", err
	}
	return token, nil
}

func (f *fakeAPI) CurrentUser(context.Context, string) (*domain.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Status: 404}
}

func (f *fakeAPI) ListTasks(context.Context, string) ([]domain.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, _ string, in ports.CreateTaskInput) (*domain.Task, error) {
	task := domain.Task{ID: int64(len(f.tasks) + 1), Title: in.Title, Description: in.Description, Deadline: in.Deadline, Status: domain.StatusPending}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, _ string, id int64, in ports.UpdateTaskInput) (*domain.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if in.Status != nil {
				f.tasks[i].Status = *in.Status
			}
			return &f.tasks[i], nil
		}
	}
	return nil, &domain.UpstreamError{Kind: domain.ErrNotFound, Status: 404, Detail: "Task not found"}
}

func (f *fakeAPI) DeleteTask(_ context.Context, _ string, id int64) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &domain.UpstreamError{Kind: domain.ErrNotFound, Status: 404, Detail: "Task not found"}
}

// TestWebFlows drives the whole stack (router, session cookie, templates)
// through one browser-like client. The router is built once because the
// Prometheus middleware registers collectors globally.
func TestWebFlows(t *testing.T) {
	api := &fakeAPI{tasks: []domain.Task{
		{ID: 1, Title: "write report", Description: "q3 numbers", Status: domain.StatusPending, AssignedTo: "a@x.com"},
	}}

	cfg := &config.Config{Port: "0", Env: "development", SessionSecret: "test-secret"}
	tokens := session.NewCookieStore(cfg.SessionSecret, false)
	e, err := NewRouter(cfg, api, tokens, guard.NewMemoryGuard(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	srv := httptest.NewServer(e)
	defer srv.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return resp, string(body)
	}
	post := func(path string, form url.Values) (*http.Response, string) {
		t.Helper()
		resp, err := client.PostForm(srv.URL+path, form)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return resp, string(body)
	}

	t.Run("dashboard without session redirects to login", func(t *testing.T) {
		resp, body := get("/dashboard")
		// The client follows the redirect; we should land on the login form.
		if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Sign in") {
			t.Fatalf("expected login page, got %d", resp.StatusCode)
		}
	})

	t.Run("login with bad password shows upstream detail", func(t *testing.T) {
		resp, body := post("/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Invalid credentials") {
			t.Fatalf("upstream detail not shown")
		}
	})

	t.Run("login then dashboard shows editable own task", func(t *testing.T) {
		resp, body := post("/login", url.Values{"email": {"a@x.com"}, "password": {"pw"}})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected redirect-to-dashboard to succeed, got %d", resp.StatusCode)
		}
		// /me answers 404; the role came from the token claims.
		if !strings.Contains(body, "Welcome, a (Employee)") {
			t.Fatalf("welcome line missing:\n%s", body)
		}
		if !strings.Contains(body, "write report") {
			t.Fatalf("task row missing")
		}
		if !strings.Contains(body, `action="/tasks/1/status"`) {
			t.Fatalf("own pending task must carry an editable selector")
		}
		if !strings.Contains(body, `<option value="pending" selected>Pending</option>`) {
			t.Fatalf("selector must default to Pending")
		}
	})

	t.Run("status filter narrows the view", func(t *testing.T) {
		_, body := get("/dashboard?status=completed")
		if !strings.Contains(body, "No tasks to show.") {
			t.Fatalf("completed filter should be empty:\n%s", body)
		}
	})

	t.Run("status update refreshes the collection", func(t *testing.T) {
		resp, body := post("/tasks/1/status", url.Values{"status": {"in-progress"}})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected dashboard after update, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, `<option value="in-progress" selected>In Progress</option>`) {
			t.Fatalf("updated status not reflected after reload")
		}
	})

	t.Run("transport failure keeps the page retryable", func(t *testing.T) {
		api.listErr = &domain.UpstreamError{Kind: domain.ErrTransport}
		defer func() { api.listErr = nil }()

		resp, body := get("/dashboard")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("load failure must render, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Retry") {
			t.Fatalf("retry link missing on load failure")
		}
	})

	t.Run("auth failure on list ends the session", func(t *testing.T) {
		api.listErr = &domain.UpstreamError{Kind: domain.ErrAuth, Status: 401}
		defer func() { api.listErr = nil }()

		_, body := get("/dashboard")
		if !strings.Contains(body, "Sign in") {
			t.Fatalf("auth failure must land on login:\n%s", body)
		}
		if !strings.Contains(body, "Session expired") {
			t.Fatalf("session-expired flash missing")
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		// Log back in first (previous stage cleared the token).
		post("/login", url.Values{"email": {"a@x.com"}, "password": {"pw"}})

		_, body := post("/logout", url.Values{})
		if !strings.Contains(body, "Sign in") || !strings.Contains(body, "logged out") {
			t.Fatalf("logout should land on login with a notice")
		}
		_, body = get("/dashboard")
		if !strings.Contains(body, "Sign in") {
			t.Fatalf("session survived logout")
		}
	})

	t.Run("register redirects to login with notice", func(t *testing.T) {
		resp, body := post("/register", url.Values{
			"username": {"newbie"},
			"email":    {"new@x.com"},
			"password": {"secret1"},
			"role":     {"employee"},
			"skills":   {"go, sql"},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("register flow: %d", resp.StatusCode)
		}
		if !strings.Contains(body, "User registered successfully") {
			t.Fatalf("registration notice missing:\n%s", body)
		}
	})

	t.Run("employee registration requires skills", func(t *testing.T) {
		resp, body := post("/register", url.Values{
			"username": {"nameless"},
			"email":    {"n@x.com"},
			"password": {"secret1"},
			"role":     {"employee"},
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "skills are required") {
			t.Fatalf("skills validation message missing")
		}
	})
}
