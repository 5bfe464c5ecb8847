package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/config"
	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/middleware"
	"github.com/iliyamo/vaani/internal/render"
	"github.com/iliyamo/vaani/internal/repository"
	"github.com/iliyamo/vaani/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type passwordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, render.PageRegister, nil)
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, render.PageLogin, nil)
}

// Register creates the account together with its empty website, starts a
// session and sends the user to the dashboard.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	ctx := c.Request().Context()
	uid, err := h.Users.CreateWithWebsite(ctx, username, password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username already exists"})
		}
		logger.FromContext(ctx).Error("register failed", "username", username, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	if err := h.startSession(c, uid, username); err != nil {
		logger.FromContext(ctx).Error("issue session failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	logger.FromContext(ctx).Info("user registered", "user_id", uid)
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Login verifies the credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password are required"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
		}
		logger.FromContext(ctx).Error("login query failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.startSession(c, u.ID, u.Username); err != nil {
		logger.FromContext(ctx).Error("issue session failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSession(c)
	return c.Redirect(http.StatusFound, "/")
}

// ChangePassword replaces the password after re-checking the current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password are required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Users.Verify(ctx, id.Username, req.CurrentPassword); err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Current password is incorrect"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Users.UpdatePassword(ctx, id.UserID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		logger.FromContext(ctx).Error("update password failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated"})
}

// DeleteAccount removes the user and their website, then ends the session.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	ctx := c.Request().Context()
	if err := h.Users.Delete(ctx, id.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.clearSession(c)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		logger.FromContext(ctx).Error("delete account failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	h.clearSession(c)
	logger.FromContext(ctx).Info("account deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted"})
}

func (h *AuthHandler) startSession(c echo.Context, userID uint64, username string) error {
	ttl := h.Cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, userID, username, ttl)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}
