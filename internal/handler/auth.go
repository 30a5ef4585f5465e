package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-record/internal/auth"
	"github.com/iliyamo/health-record/internal/middleware"
	"github.com/iliyamo/health-record/internal/model"
	"github.com/iliyamo/health-record/internal/repository"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Sessions *auth.SessionManager
}

func NewAuthHandler(s *auth.SessionManager) *AuthHandler {
	if s == nil {
		panic("nil session manager passed to NewAuthHandler")
	}
	return &AuthHandler{Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD, optional
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPart is the public projection of a user record.  The password hash
// is deliberately not part of this type, so it can never leak into a
// response body.
type userPart struct {
	ID          uint64  `json:"id"`
	Email       string  `json:"email"`
	FullName    *string `json:"fullName"`
	DateOfBirth *string `json:"dateOfBirth"`
}

func projectUser(u model.User) userPart {
	p := userPart{ID: u.ID, Email: u.Email, FullName: u.FullName}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format("2006-01-02")
		p.DateOfBirth = &dob
	}
	return p
}

// Register: create the user, then establish a session so the client is
// logged in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	var fullName *string
	if v := strings.TrimSpace(req.FullName); v != "" {
		fullName = &v
	}
	var dob *time.Time
	if v := strings.TrimSpace(req.DateOfBirth); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dateOfBirth must be YYYY-MM-DD"})
		}
		dob = &d
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Sessions.Register(ctx, req.Email, req.Password, fullName, dob)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		c.Logger().Errorf("register: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	if err := h.Sessions.Establish(c, u); err != nil {
		c.Logger().Errorf("register establish session: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": projectUser(u)})
}

// Login: verify the credential and establish a fresh session.  Unknown
// email and wrong password produce byte-identical responses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if err := h.Sessions.Establish(c, u); err != nil {
		c.Logger().Errorf("login establish session: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": projectUser(u)})
}

// Logout clears the session cookie unconditionally.  There is no
// server-side state to tear down, so logging out twice is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Revoke(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me returns the resolved session user.  The record comes from the
// per-request directory lookup, never from the token's claims.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": projectUser(u)})
}
