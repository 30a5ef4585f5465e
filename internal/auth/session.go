package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/repository"
)

// CookieName is the cookie that carries the signed session token.  The
// browser holds the token; the server keeps no session state of its own.
const CookieName = "auth-token"

// ErrInvalidCredentials is the single error Login returns for both an
// unknown email and a wrong password.  Collapsing the two prevents the
// login endpoint from being used to enumerate registered addresses.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserDirectory is the persistence collaborator the session manager
// resolves identities against.  repository.UserRepo implements it; tests
// substitute an in-memory fake.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, email, passwordHash string, fullName *string, dateOfBirth *time.Time) (model.User, error)
}

// SessionManager binds the token codec to the HTTP cookie lifecycle.  A
// session is nothing but a valid token in the auth cookie plus a live row
// in the user directory; both are checked on every request.
type SessionManager struct {
	codec      *Codec
	users      UserDirectory
	bcryptCost int
	secure     bool // set the Secure cookie flag (production deployments)
}

// NewSessionManager wires a codec and a user directory into a session
// manager.  secure controls the cookie's Secure attribute and must be true
// whenever the service is reachable over an untrusted network.
func NewSessionManager(codec *Codec, users UserDirectory, bcryptCost int, secure bool) *SessionManager {
	if codec == nil || users == nil {
		panic("nil dependency passed to NewSessionManager")
	}
	if bcryptCost <= 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &SessionManager{codec: codec, users: users, bcryptCost: bcryptCost, secure: secure}
}

// Register hashes the password and creates the user in the directory.
// repository.ErrEmailExists passes through for the handler to map to 409.
func (m *SessionManager) Register(ctx context.Context, email, password string, fullName *string, dateOfBirth *time.Time) (model.User, error) {
	hash, err := HashPassword(password, m.bcryptCost)
	if err != nil {
		return model.User{}, err
	}
	return m.users.Create(ctx, email, hash, fullName, dateOfBirth)
}

// Login checks the credential against the stored hash.  The credential
// check always completes before any token is issued, and both failure
// modes return ErrInvalidCredentials.  Directory failures other than a
// missing row propagate so the handler can answer 500.
func (m *SessionManager) Login(ctx context.Context, email, password string) (model.User, error) {
	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Establish issues a token for the user and stores it in the session
// cookie.  The cookie's Max-Age equals the token's validity window so the
// two expire together.
func (m *SessionManager) Establish(c echo.Context, u model.User) error {
	token, err := m.codec.Issue(u.ID, u.Email)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.codec.TTL() / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve turns the request's cookie into a live user record.  A missing
// cookie, a token that fails verification, or a user that no longer exists
// all yield (nil, nil): not authenticated, not an error.  Verification
// short-circuits before the directory lookup, so an invalid token never
// triggers a fetch.  Only a directory failure is returned as an error.
func (m *SessionManager) Resolve(c echo.Context) (*model.User, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	claims, err := m.codec.Verify(cookie.Value)
	if err != nil {
		return nil, nil
	}
	u, err := m.users.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Stale claims: the account is gone, so the session is too.
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Revoke clears the session cookie.  Idempotent: revoking when no session
// exists is a no-op.
func (m *SessionManager) Revoke(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
