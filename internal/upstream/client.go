// Package upstream implements the HTTP client for the remote task API. Every
// method is a single request/response cycle with no retries; non-2xx responses
// are converted to *domain.UpstreamError with the HTTP status and any
// server-supplied detail string, network-level failures to a transport error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Client talks to the upstream task service.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

var _ ports.UpstreamAPI = (*Client)(nil)

// NewClient creates a Client for the given base URL (scheme + host, no
// trailing slash). A zero timeout falls back to defaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

type registerRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Skills   []string    `json:"skills,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	var out messageResponse
	err := c.do(ctx, "register", http.MethodPost, "/register", "", registerRequest{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
		Skills:   in.Skills,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &domain.UpstreamError{Kind: domain.ErrServer, Detail: "login response missing access token"}
	}
	return out.AccessToken, nil
}

// currentUserResponse stays lenient about optional fields: the endpoint was a
// late addition upstream and older deployments omit pieces of it.
type currentUserResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var out currentUserResponse
	if err := c.do(ctx, "current_user", http.MethodGet, "/me", token, nil, &out); err != nil {
		return nil, err
	}
	username := out.Username
	if username == "" {
		username = out.Name
	}
	return &domain.User{
		Username: username,
		Email:    out.Email,
		Role:     domain.ParseRole(out.Role),
	}, nil
}

func (c *Client) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	var out []domain.Task
	if err := c.do(ctx, "list_tasks", http.MethodGet, "/tasks/", token, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Task{}
	}
	return out, nil
}

type createTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Deadline    *domain.Deadline `json:"deadline,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, token string, in ports.CreateTaskInput) (*domain.Task, error) {
	var out domain.Task
	err := c.do(ctx, "create_task", http.MethodPost, "/tasks/", token, createTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type updateTaskRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Deadline    *domain.Deadline   `json:"deadline,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	AssignedTo  *string            `json:"assigned_to,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, token string, id int64, in ports.UpdateTaskInput) (*domain.Task, error) {
	var out domain.Task
	err := c.do(ctx, "update_task", http.MethodPut, fmt.Sprintf("/tasks/%d", id), token, updateTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, token string, id int64) error {
	return c.do(ctx, "delete_task", http.MethodDelete, fmt.Sprintf("/tasks/%d", id), token, nil, nil)
}

// do performs one round trip: marshal body, attach headers, classify the
// response. out may be nil for calls whose success carries no body.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, token, body, out)
	metrics.UpstreamRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(op, outcomeLabel(err)).Inc()
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream unreachable")
		return &domain.UpstreamError{Kind: domain.ErrTransport}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.UpstreamError{Kind: domain.ErrTransport}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		uerr := &domain.UpstreamError{
			Kind:   classify(resp.StatusCode),
			Status: resp.StatusCode,
			Detail: errorDetail(raw),
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).
			Str("detail", uerr.Detail).Msg("upstream error response")
		return uerr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.UpstreamError{Kind: domain.ErrServer, Status: resp.StatusCode, Detail: "malformed response body"}
	}
	return nil
}

// classify maps an HTTP status to an error kind per the client taxonomy:
// 401/403 force logout, 404 means the task vanished, other 4xx is input the
// user must correct, 5xx is a generic upstream failure.
func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrAuth
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= 400 && status < 500:
		return domain.ErrValidation
	default:
		return domain.ErrServer
	}
}

// errorDetail extracts the human-readable message from an upstream error body.
// FastAPI-style backends use "detail"; others use "error" or "message".
func errorDetail(raw []byte) string {
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		// Structured validation detail: pass it through as-is.
		return string(envelope.Detail)
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var uerr *domain.UpstreamError
	if !errors.As(err, &uerr) {
		return "server"
	}
	switch uerr.Kind {
	case domain.ErrAuth:
		return "auth"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrValidation:
		return "validation"
	case domain.ErrTransport:
		return "transport"
	default:
		return "server"
	}
}
