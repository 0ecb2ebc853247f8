package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/core/service"
	"github.com/taskdeck/taskdeck/internal/web/render"
)

// TaskHandler receives the dashboard's mutating form posts. Every mutation
// follows the same pattern: validate, call the service, then redirect back to
// the dashboard so the next GET re-fetches the full collection — local state
// is never patched.
type TaskHandler struct {
	tasks  *service.TaskService
	api    ports.UpstreamAPI
	tokens ports.TokenStore
	log    zerolog.Logger
}

func NewTaskHandler(tasks *service.TaskService, api ports.UpstreamAPI, tokens ports.TokenStore, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, api: api, tokens: tokens, log: log}
}

func (h *TaskHandler) Create(c echo.Context) error {
	token, ok := h.tokens.Token(c.Request())
	if !ok {
		return redirectToLogin(c, h.tokens)
	}

	var form createTaskForm
	if err := c.Bind(&form); err != nil {
		return h.backWithError(c, "Invalid form submission.")
	}
	if err := c.Validate(&form); err != nil {
		return h.backWithError(c, err.Error())
	}
	deadline, err := parseDeadline(form.Deadline)
	if err != nil {
		return h.backWithError(c, "deadline must be a valid date")
	}

	task, err := h.tasks.Create(c.Request().Context(), token, ports.CreateTaskInput{
		Title:       form.Title,
		Description: form.Description,
		Deadline:    deadline,
	})
	if err != nil {
		return h.mutationError(c, err)
	}

	setFlash(c, flashOK, "Task \""+task.Title+"\" created.")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	token, ok := h.tokens.Token(c.Request())
	if !ok {
		return redirectToLogin(c, h.tokens)
	}
	id, err := taskID(c)
	if err != nil {
		return h.backWithError(c, "Unknown task.")
	}

	var form statusForm
	if err := c.Bind(&form); err != nil {
		return h.backWithError(c, "Invalid form submission.")
	}
	if err := c.Validate(&form); err != nil {
		return h.backWithError(c, err.Error())
	}
	status, err := domain.ParseStatus(form.Status)
	if err != nil {
		return h.backWithError(c, "Unknown status.")
	}

	if err := h.tasks.UpdateStatus(c.Request().Context(), token, id, status); err != nil {
		return h.mutationError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// EditForm loads the task into the edit page. The upstream API has no
// single-task endpoint, so the task is located in the freshly listed
// collection.
func (h *TaskHandler) EditForm(c echo.Context) error {
	token, ok := h.tokens.Token(c.Request())
	if !ok {
		return redirectToLogin(c, h.tokens)
	}
	id, err := taskID(c)
	if err != nil {
		return h.backWithError(c, "Unknown task.")
	}

	tasks, err := h.api.ListTasks(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			return redirectToLogin(c, h.tokens)
		}
		return h.backWithError(c, errorMessage(err))
	}

	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		rows := render.BuildRows([]domain.Task{t}, domain.RoleManager, "")
		page := render.EditPage{Task: rows[0]}
		if t.Deadline != nil && !t.Deadline.IsZero() {
			page.DeadlineIn = t.Deadline.Format("2006-01-02")
		}
		return c.Render(http.StatusOK, "edit.html", page)
	}
	return h.backWithError(c, "That task no longer exists.")
}

func (h *TaskHandler) Edit(c echo.Context) error {
	token, ok := h.tokens.Token(c.Request())
	if !ok {
		return redirectToLogin(c, h.tokens)
	}
	id, err := taskID(c)
	if err != nil {
		return h.backWithError(c, "Unknown task.")
	}

	var form editTaskForm
	if err := c.Bind(&form); err != nil {
		return h.backWithError(c, "Invalid form submission.")
	}
	if err := c.Validate(&form); err != nil {
		return h.backWithError(c, err.Error())
	}
	deadline, err := parseDeadline(form.Deadline)
	if err != nil {
		return h.backWithError(c, "deadline must be a valid date")
	}

	in := ports.UpdateTaskInput{
		Title:       &form.Title,
		Description: &form.Description,
		Deadline:    deadline,
	}
	if form.AssignedTo != "" {
		in.AssignedTo = &form.AssignedTo
	}

	if err := h.tasks.Edit(c.Request().Context(), token, id, in); err != nil {
		return h.mutationError(c, err)
	}

	setFlash(c, flashOK, "Task updated.")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *TaskHandler) Delete(c echo.Context) error {
	token, ok := h.tokens.Token(c.Request())
	if !ok {
		return redirectToLogin(c, h.tokens)
	}
	id, err := taskID(c)
	if err != nil {
		return h.backWithError(c, "Unknown task.")
	}

	if err := h.tasks.Delete(c.Request().Context(), token, id); err != nil {
		return h.mutationError(c, err)
	}

	setFlash(c, flashOK, "Task deleted.")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func taskID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// mutationError is the single error boundary for mutating actions: auth
// failures end the session, everything else lands on the dashboard as a
// flash so the user can retry.
func (h *TaskHandler) mutationError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrAuth) {
		return redirectToLogin(c, h.tokens)
	}
	h.log.Info().Err(err).Str("path", c.Path()).Msg("task mutation failed")
	return h.backWithError(c, errorMessage(err))
}

func (h *TaskHandler) backWithError(c echo.Context, msg string) error {
	setFlash(c, flashError, msg)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}
