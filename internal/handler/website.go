package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/middleware"
	"github.com/iliyamo/vaani/internal/model"
	"github.com/iliyamo/vaani/internal/queue"
	"github.com/iliyamo/vaani/internal/render"
	"github.com/iliyamo/vaani/internal/repository"
)

// WebsiteHandler serves the dashboard, the manual save endpoint and the
// public pages.
type WebsiteHandler struct {
	Users  *repository.UserRepo
	Sites  *repository.WebsiteRepo
	Events EventPublisher
}

func NewWebsiteHandler(u *repository.UserRepo, s *repository.WebsiteRepo, ev EventPublisher) *WebsiteHandler {
	return &WebsiteHandler{Users: u, Sites: s, Events: ev}
}

// Index renders the landing page.
func (h *WebsiteHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, render.PageIndex, nil)
}

// Dashboard renders the editor for the signed-in user.
func (h *WebsiteHandler) Dashboard(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}
	ctx := c.Request().Context()
	site, err := h.Sites.Get(ctx, id.UserID)
	if err != nil && !errors.Is(err, repository.ErrWebsiteNotFound) {
		logger.FromContext(ctx).Error("load website failed", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load website")
	}
	return c.Render(http.StatusOK, render.PageDashboard, render.DashboardData{
		Username:  id.Username,
		Website:   site,
		PublicURL: "/public/" + id.Username,
	})
}

// SaveData overwrites all four content fields with the submitted values.
// Missing or null fields are stored as empty strings.
func (h *WebsiteHandler) SaveData(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	var f model.WebsiteFields
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	if err := h.Sites.ReplaceAll(ctx, id.UserID, f); err != nil {
		logger.FromContext(ctx).Error("save website failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save website content"})
	}

	publishUpdate(c, h.Events, queue.WebsiteUpdatedEvent{
		UserID:   id.UserID,
		Username: id.Username,
		Source:   queue.SourceManual,
		Fields:   []string{model.FieldShopName, model.FieldDescription, model.FieldAnnouncement, model.FieldImageURL},
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Website content saved successfully"})
}

// Public renders a user's site and counts the view.  The page shows the
// content as read before the increment.  Unknown users get the 404 page and
// no counter changes.
func (h *WebsiteHandler) Public(c echo.Context) error {
	username := c.Param("username")
	ctx := c.Request().Context()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Render(http.StatusNotFound, render.PageNotFound, nil)
		}
		logger.FromContext(ctx).Error("load user failed", "username", username, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load website")
	}

	site, err := h.Sites.Get(ctx, u.ID)
	switch {
	case errors.Is(err, repository.ErrWebsiteNotFound):
		site = render.PlaceholderWebsite(u.Username)
	case err != nil:
		logger.FromContext(ctx).Error("load website failed", "user_id", u.ID, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load website")
	}

	h.Sites.IncrementView(ctx, u.ID)

	return c.Render(http.StatusOK, render.PagePublic, render.PublicData{Username: u.Username, Website: site})
}
