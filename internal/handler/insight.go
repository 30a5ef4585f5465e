package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/middleware"
	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/repository"
)

// InsightStore is the persistence surface the insight handler needs.
// repository.InsightRepo implements it.
type InsightStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Insight, error)
	MarkRead(ctx context.Context, id, userID uint64) error
}

// InsightHandler exposes the read-only insight endpoints.  Insights are
// produced elsewhere; this service only lists and acknowledges them.
type InsightHandler struct {
	Insights InsightStore
}

func NewInsightHandler(store InsightStore) *InsightHandler {
	if store == nil {
		panic("nil insight store passed to NewInsightHandler")
	}
	return &InsightHandler{Insights: store}
}

type insightPart struct {
	ID              uint64    `json:"id"`
	InsightType     string    `json:"insightType"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Severity        string    `json:"severity"`
	ConfidenceScore float64   `json:"confidenceScore"`
	IsRead          bool      `json:"isRead"`
	CreatedAt       time.Time `json:"createdAt"`
}

// List returns the session user's insights, newest first.
func (h *InsightHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	insights, err := h.Insights.ListByUser(ctx, u.ID)
	if err != nil {
		c.Logger().Errorf("list insights: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get insights"})
	}
	parts := make([]insightPart, 0, len(insights))
	for _, in := range insights {
		parts = append(parts, insightPart{
			ID:              in.ID,
			InsightType:     in.InsightType,
			Title:           in.Title,
			Description:     in.Description,
			Severity:        in.Severity,
			ConfidenceScore: in.ConfidenceScore,
			IsRead:          in.IsRead,
			CreatedAt:       in.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"insights": parts})
}

// MarkRead acknowledges an insight.  The id in the path must belong to the
// session user, otherwise the insight does not exist as far as the caller
// is concerned.
func (h *InsightHandler) MarkRead(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid insight id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Insights.MarkRead(ctx, id, u.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "insight not found"})
		}
		c.Logger().Errorf("mark insight read: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update insight"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
