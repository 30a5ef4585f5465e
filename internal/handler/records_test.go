package handler_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/health-record/internal/auth"
	"github.com/iliyamo/health-record/internal/handler"
	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/queue"
	"github.com/iliyamo/health-record/internal/repository"
	"github.com/iliyamo/health-record/internal/router"
)

// fakeDocuments implements handler.DocumentStore in memory.
type fakeDocuments struct {
	mu     sync.Mutex
	nextID uint64
	docs   []model.Document
}

func (f *fakeDocuments) Create(_ context.Context, d *model.Document) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *d
	stored.ID = f.nextID
	stored.CreatedAt = time.Now().UTC()
	f.docs = append(f.docs, stored)
	return stored, nil
}

func (f *fakeDocuments) ListByUser(_ context.Context, userID uint64) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Document{}
	for _, d := range f.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeInsights implements handler.InsightStore in memory.
type fakeInsights struct {
	mu       sync.Mutex
	insights map[uint64]model.Insight
}

func (f *fakeInsights) ListByUser(_ context.Context, userID uint64) ([]model.Insight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Insight{}
	for _, in := range f.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeInsights) MarkRead(_ context.Context, id, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.insights[id]
	if !ok || in.UserID != userID {
		return repository.ErrNotFound
	}
	in.IsRead = true
	f.insights[id] = in
	return nil
}

// fakeReminders implements handler.ReminderStore in memory.
type fakeReminders struct {
	mu        sync.Mutex
	nextID    uint64
	reminders map[uint64]model.Reminder
}

func (f *fakeReminders) Create(_ context.Context, rem *model.Reminder) (model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reminders == nil {
		f.reminders = map[uint64]model.Reminder{}
	}
	f.nextID++
	stored := *rem
	stored.ID = f.nextID
	stored.CreatedAt = time.Now().UTC()
	f.reminders[stored.ID] = stored
	return stored, nil
}

func (f *fakeReminders) ListByUser(_ context.Context, userID uint64) ([]model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Reminder{}
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminders) Complete(_ context.Context, id, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	r.IsCompleted = true
	r.CompletedAt = &now
	f.reminders[id] = r
	return nil
}

type recordsServer struct {
	e         *echo.Echo
	dir       *fakeDirectory
	documents *fakeDocuments
	insights  *fakeInsights
	reminders *fakeReminders
	published []queue.DocumentRecordedEvent
	session   *http.Cookie
	user      model.User
}

// newRecordsServer wires the record routes against fakes and returns a
// logged-in user's session cookie.
func newRecordsServer(t *testing.T) *recordsServer {
	t.Helper()

	s := &recordsServer{
		dir:       newFakeDirectory(),
		documents: &fakeDocuments{},
		insights:  &fakeInsights{insights: map[uint64]model.Insight{}},
		reminders: &fakeReminders{},
	}

	codec := auth.NewCodec("records-test-secret", 7*24*time.Hour)
	sessions := auth.NewSessionManager(codec, s.dir, bcrypt.MinCost, false)

	s.e = echo.New()
	router.RegisterRecords(s.e,
		handler.NewDocumentHandler(s.documents, func(_ context.Context, ev queue.DocumentRecordedEvent) error {
			s.published = append(s.published, ev)
			return nil
		}),
		handler.NewInsightHandler(s.insights),
		handler.NewReminderHandler(s.reminders),
		sessions)

	u, err := sessions.Register(context.Background(), "alice@example.com", "pw123456", nil, nil)
	require.NoError(t, err)
	s.user = u

	token, err := codec.Issue(u.ID, u.Email)
	require.NoError(t, err)
	s.session = &http.Cookie{Name: auth.CookieName, Value: token}
	return s
}

func TestRecords_RequireSession(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	for _, target := range []string{"/v1/documents", "/v1/insights", "/v1/reminders"} {
		rec := doJSON(s.e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "target=%s", target)
		assert.Contains(t, rec.Body.String(), "not authenticated")
	}
}

func TestDocuments_CreateAndList(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	rec := doJSON(s.e, http.MethodPost, "/v1/documents",
		`{"title":"Blood panel","documentType":"lab_result","documentDate":"2026-08-01","notes":"annual checkup"}`,
		s.session)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Blood panel"`)
	assert.Contains(t, rec.Body.String(), `"documentDate":"2026-08-01"`)

	// The persisted record belongs to the session user and an event went out.
	require.Len(t, s.published, 1)
	assert.Equal(t, s.user.ID, s.published[0].UserID)
	assert.Equal(t, "Blood panel", s.published[0].Title)

	rec = doJSON(s.e, http.MethodGet, "/v1/documents", "", s.session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Blood panel"`)
}

func TestDocuments_CreateValidation(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	rec := doJSON(s.e, http.MethodPost, "/v1/documents", `{"documentType":"lab_result"}`, s.session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s.e, http.MethodPost, "/v1/documents",
		`{"title":"x","documentDate":"08/01/2026"}`, s.session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, s.published)
}

func TestDocuments_DefaultsApplied(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	rec := doJSON(s.e, http.MethodPost, "/v1/documents", `{"title":"Scan"}`, s.session)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"documentType":"other"`)
}

func TestInsights_ListAndMarkRead(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	s.insights.insights[7] = model.Insight{
		ID: 7, UserID: s.user.ID, InsightType: "recommendation",
		Title: "Regular check-up recommended", Severity: "info",
		ConfidenceScore: 0.85, CreatedAt: time.Now().UTC(),
	}

	rec := doJSON(s.e, http.MethodGet, "/v1/insights", "", s.session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isRead":false`)

	rec = doJSON(s.e, http.MethodPost, "/v1/insights/7/read", "", s.session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.insights.insights[7].IsRead)

	// Unknown id for this user: 404, invalid id: 400.
	rec = doJSON(s.e, http.MethodPost, "/v1/insights/999/read", "", s.session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(s.e, http.MethodPost, "/v1/insights/abc/read", "", s.session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminders_Lifecycle(t *testing.T) {
	t.Parallel()
	s := newRecordsServer(t)

	// Missing required fields.
	rec := doJSON(s.e, http.MethodPost, "/v1/reminders", `{"title":"Take medication"}`, s.session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s.e, http.MethodPost, "/v1/reminders",
		`{"reminderType":"medication","title":"Take medication","dueDate":"2026-09-01","isRecurring":true}`,
		s.session)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isRecurring":true`)
	assert.Contains(t, rec.Body.String(), `"isCompleted":false`)

	rec = doJSON(s.e, http.MethodPost, "/v1/reminders/1/complete", "", s.session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.reminders.reminders[1].IsCompleted)
	require.NotNil(t, s.reminders.reminders[1].CompletedAt)

	rec = doJSON(s.e, http.MethodPost, "/v1/reminders/42/complete", "", s.session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
