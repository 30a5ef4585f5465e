package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/middleware"
	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/repository"
)

// ReminderStore is the persistence surface the reminder handler needs.
// repository.ReminderRepo implements it.
type ReminderStore interface {
	Create(ctx context.Context, rem *model.Reminder) (model.Reminder, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reminder, error)
	Complete(ctx context.Context, id, userID uint64) error
}

// ReminderHandler exposes the reminder endpoints.
type ReminderHandler struct {
	Reminders ReminderStore
}

func NewReminderHandler(store ReminderStore) *ReminderHandler {
	if store == nil {
		panic("nil reminder store passed to NewReminderHandler")
	}
	return &ReminderHandler{Reminders: store}
}

type createReminderReq struct {
	ReminderType string `json:"reminderType"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate"` // YYYY-MM-DD
	IsRecurring  bool   `json:"isRecurring"`
}

type reminderPart struct {
	ID           uint64     `json:"id"`
	ReminderType string     `json:"reminderType"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DueDate      string     `json:"dueDate"`
	IsRecurring  bool       `json:"isRecurring"`
	IsCompleted  bool       `json:"isCompleted"`
	CompletedAt  *time.Time `json:"completedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func projectReminder(r model.Reminder) reminderPart {
	return reminderPart{
		ID:           r.ID,
		ReminderType: r.ReminderType,
		Title:        r.Title,
		Description:  r.Description,
		DueDate:      r.DueDate.Format("2006-01-02"),
		IsRecurring:  r.IsRecurring,
		IsCompleted:  r.IsCompleted,
		CompletedAt:  r.CompletedAt,
		CreatedAt:    r.CreatedAt,
	}
}

// List returns the session user's reminders, pending first.
func (h *ReminderHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reminders, err := h.Reminders.ListByUser(ctx, u.ID)
	if err != nil {
		c.Logger().Errorf("list reminders: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get reminders"})
	}
	parts := make([]reminderPart, 0, len(reminders))
	for _, r := range reminders {
		parts = append(parts, projectReminder(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reminders": parts})
}

// Create persists a reminder for the session user.
func (h *ReminderHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var req createReminderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ReminderType = strings.TrimSpace(req.ReminderType)
	req.Title = strings.TrimSpace(req.Title)
	req.DueDate = strings.TrimSpace(req.DueDate)
	if req.ReminderType == "" || req.Title == "" || req.DueDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reminderType, title and dueDate are required"})
	}
	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dueDate must be YYYY-MM-DD"})
	}

	rem := model.Reminder{
		UserID:       u.ID,
		ReminderType: req.ReminderType,
		Title:        req.Title,
		DueDate:      due,
		IsRecurring:  req.IsRecurring,
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		rem.Description = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Reminders.Create(ctx, &rem)
	if err != nil {
		c.Logger().Errorf("create reminder: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reminder"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"reminder": projectReminder(created)})
}

// Complete marks a reminder as done.  Scoped to the session user: another
// user's reminder id answers 404.
func (h *ReminderHandler) Complete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reminder id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reminders.Complete(ctx, id, u.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reminder not found"})
		}
		c.Logger().Errorf("complete reminder: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete reminder"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
