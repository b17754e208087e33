package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/middleware/auth"
	"github.com/Skotchmaster/userauth/internal/service"
	"github.com/Skotchmaster/userauth/internal/transport"
)

const photoField = "photo"

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	user := auth.UserFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_update")

	user := auth.UserFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
	}

	var req transport.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("profile_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody)
	}

	updated, err := h.Svc.Update(ctx, user, req.ToModel())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ProfileHTTP) UploadPhoto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_photo")

	user := auth.UserFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
	}

	fh, err := c.FormFile(photoField)
	if err != nil {
		l.Info("photo_rejected", "status", 400, "reason", "missing photo field", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "photo: file is required")
	}
	f, err := fh.Open()
	if err != nil {
		l.Error("photo_error", "status", 500, "reason", "cannot open upload", "error", err)
		return httpError(err)
	}
	defer f.Close()

	url, updated, err := h.Svc.SetPhoto(ctx, user, fh.Filename, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.PhotoResponse{URL: url, User: updated})
}
