package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/middleware"
	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/queue"
)

// DocumentStore is the persistence surface the document handler needs.
// repository.DocumentRepo implements it.
type DocumentStore interface {
	Create(ctx context.Context, d *model.Document) (model.Document, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Document, error)
}

// DocumentHandler exposes the document record endpoints.  Publish is
// called after a record persists; a nil Publish disables events.
type DocumentHandler struct {
	Documents DocumentStore
	Publish   func(ctx context.Context, ev queue.DocumentRecordedEvent) error
}

func NewDocumentHandler(store DocumentStore, publish func(ctx context.Context, ev queue.DocumentRecordedEvent) error) *DocumentHandler {
	if store == nil {
		panic("nil document store passed to NewDocumentHandler")
	}
	return &DocumentHandler{Documents: store, Publish: publish}
}

type createDocumentReq struct {
	DocumentType string `json:"documentType"`
	Title        string `json:"title"`
	FileURL      string `json:"fileUrl"`
	FileName     string `json:"fileName"`
	FileSize     *int64 `json:"fileSize"`
	DocumentDate string `json:"documentDate"` // YYYY-MM-DD, defaults to today
	Notes        string `json:"notes"`
}

type documentPart struct {
	ID           uint64    `json:"id"`
	DocumentType string    `json:"documentType"`
	Title        string    `json:"title"`
	FileURL      *string   `json:"fileUrl"`
	FileName     *string   `json:"fileName"`
	FileSize     *int64    `json:"fileSize"`
	DocumentDate string    `json:"documentDate"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
}

func projectDocument(d model.Document) documentPart {
	return documentPart{
		ID:           d.ID,
		DocumentType: d.DocumentType,
		Title:        d.Title,
		FileURL:      d.FileURL,
		FileName:     d.FileName,
		FileSize:     d.FileSize,
		DocumentDate: d.DocumentDate.Format("2006-01-02"),
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
}

// List returns the session user's document records, newest first.
func (h *DocumentHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Documents.ListByUser(ctx, u.ID)
	if err != nil {
		c.Logger().Errorf("list documents: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to get documents"})
	}
	parts := make([]documentPart, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, projectDocument(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": parts})
}

// Create persists a document metadata record for the session user and
// publishes a document.recorded event.  The file itself is stored out of
// band; only its location and metadata pass through here.
func (h *DocumentHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var req createDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	docType := strings.TrimSpace(req.DocumentType)
	if docType == "" {
		docType = "other"
	}
	docDate := time.Now().UTC().Truncate(24 * time.Hour)
	if v := strings.TrimSpace(req.DocumentDate); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "documentDate must be YYYY-MM-DD"})
		}
		docDate = d
	}

	doc := model.Document{
		UserID:       u.ID,
		DocumentType: docType,
		Title:        req.Title,
		DocumentDate: docDate,
	}
	if v := strings.TrimSpace(req.FileURL); v != "" {
		doc.FileURL = &v
	}
	if v := strings.TrimSpace(req.FileName); v != "" {
		doc.FileName = &v
	}
	doc.FileSize = req.FileSize
	if v := strings.TrimSpace(req.Notes); v != "" {
		doc.Notes = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Documents.Create(ctx, &doc)
	if err != nil {
		c.Logger().Errorf("create document: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save document"})
	}

	if h.Publish != nil {
		ev := queue.DocumentRecordedEvent{
			DocumentID:   created.ID,
			UserID:       created.UserID,
			DocumentType: created.DocumentType,
			Title:        created.Title,
			DocumentDate: created.DocumentDate.Format("2006-01-02"),
			RecordedAt:   created.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Best effort: the record is already persisted, so a broker outage
		// must not fail the request.
		if err := h.Publish(ctx, ev); err != nil {
			c.Logger().Warnf("publish document.recorded: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"document": projectDocument(created)})
}
