package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/repository"
)

// fakeDirectory is an in-memory UserDirectory for tests.  Setting failWith
// makes every lookup return that error, simulating an unreachable store.
type fakeDirectory struct {
	mu       sync.Mutex
	nextID   uint64
	byID     map[uint64]model.User
	failWith error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byID: map[uint64]model.User{}}
}

func (f *fakeDirectory) Create(_ context.Context, email, passwordHash string, fullName *string, dateOfBirth *time.Time) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.User{}, f.failWith
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	f.nextID++
	u := model.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		DateOfBirth:  dateOfBirth,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.User{}, f.failWith
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeDirectory) FindByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.User{}, f.failWith
	}
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeDirectory) delete(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

func newTestContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestManager(t *testing.T, dir *fakeDirectory) *SessionManager {
	t.Helper()
	codec := NewCodec("session-test-secret", 7*24*time.Hour)
	return NewSessionManager(codec, dir, bcrypt.MinCost, false)
}

func registerUser(t *testing.T, m *SessionManager, email, password string) model.User {
	t.Helper()
	u, err := m.Register(context.Background(), email, password, nil, nil)
	require.NoError(t, err)
	return u
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLogin_GenericErrorForBothFailureModes(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	registerUser(t, m, "alice@example.com", "pw123456")

	_, errUnknown := m.Login(context.Background(), "nobody@example.com", "pw123456")
	_, errWrongPw := m.Login(context.Background(), "alice@example.com", "wrongpass")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	// The two failures must be indistinguishable.
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	want := registerUser(t, m, "alice@example.com", "pw123456")

	got, err := m.Login(context.Background(), "Alice@Example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Email, got.Email)
}

func TestEstablish_CookieAttributes(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	u := registerUser(t, m, "alice@example.com", "pw123456")

	c, rec := newTestContext()
	require.NoError(t, m.Establish(c, u))

	ck := sessionCookie(t, rec)
	assert.NotEmpty(t, ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 604800, ck.MaxAge) // 7 days
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure) // secure=false outside production
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
}

func TestEstablish_SecureCookieInProduction(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	codec := NewCodec("session-test-secret", 7*24*time.Hour)
	m := NewSessionManager(codec, dir, bcrypt.MinCost, true)
	u := registerUser(t, m, "alice@example.com", "pw123456")

	c, rec := newTestContext()
	require.NoError(t, m.Establish(c, u))
	assert.True(t, sessionCookie(t, rec).Secure)
}

func TestResolve_NoCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, newFakeDirectory())

	c, _ := newTestContext()
	u, err := m.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestResolve_GarbageCookie(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, newFakeDirectory())

	c, _ := newTestContext(&http.Cookie{Name: CookieName, Value: "garbage-bytes"})
	u, err := m.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestResolve_ValidSession(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	want := registerUser(t, m, "alice@example.com", "pw123456")

	c, rec := newTestContext()
	require.NoError(t, m.Establish(c, want))

	c2, _ := newTestContext(sessionCookie(t, rec))
	got, err := m.Resolve(c2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Email, got.Email)
}

func TestResolve_DeletedUser(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	u := registerUser(t, m, "alice@example.com", "pw123456")

	c, rec := newTestContext()
	require.NoError(t, m.Establish(c, u))
	ck := sessionCookie(t, rec)

	// The token is still valid, but the account is gone.
	dir.delete(u.ID)

	c2, _ := newTestContext(ck)
	got, err := m.Resolve(c2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_RotatedSecret(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	u := registerUser(t, m, "alice@example.com", "pw123456")

	// Token signed under a previous secret resolves to no session, exactly
	// like a malformed one.
	oldCodec := NewCodec("previous-secret", 7*24*time.Hour)
	stale, err := oldCodec.Issue(u.ID, u.Email)
	require.NoError(t, err)

	c, _ := newTestContext(&http.Cookie{Name: CookieName, Value: stale})
	got, err := m.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_DirectoryError(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	m := newTestManager(t, dir)
	u := registerUser(t, m, "alice@example.com", "pw123456")

	c, rec := newTestContext()
	require.NoError(t, m.Establish(c, u))
	ck := sessionCookie(t, rec)

	dir.failWith = errors.New("directory unreachable")

	c2, _ := newTestContext(ck)
	_, err := m.Resolve(c2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRevoke_ClearsCookieAndIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, newFakeDirectory())

	c, rec := newTestContext()
	m.Revoke(c)
	m.Revoke(c) // revoking with no session is a no-op, not an error

	ck := sessionCookie(t, rec)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}
