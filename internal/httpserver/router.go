// Package httpserver wires the HTTP handlers and routes onto an echo instance.
package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/middleware/auth"
	"github.com/Skotchmaster/userauth/internal/models"
	"github.com/Skotchmaster/userauth/internal/transport"
	"github.com/Skotchmaster/userauth/internal/uploads"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProfileHandler *ProfileHTTP
	AdminHandler   *AdminHTTP
	Gate           *auth.Gate
	// Ready reports whether the backing store answers; nil means always ready.
	Ready     func(ctx context.Context) error
	UploadDir string
}

// Register mounts every route at the root and again under /api.
func Register(e *echo.Echo, d *Deps) {
	e.Static(strings.TrimSuffix(uploads.URLPrefix, "/"), d.UploadDir)

	mount(e.Group(""), d)
	mount(e.Group("/api"), d)
}

func mount(g *echo.Group, d *Deps) {
	g.GET("/health", d.live)
	g.GET("/health/live", d.live)
	g.GET("/health/ready", d.ready)

	g.POST("/auth/register", d.AuthHandler.Register)
	g.POST("/auth/login", d.AuthHandler.Login)

	profile := g.Group("/profile", d.Gate.RequireAuth)
	profile.GET("", d.ProfileHandler.Get)
	profile.PUT("", d.ProfileHandler.Update)
	profile.PUT("/update", d.ProfileHandler.Update)
	profile.POST("/photo", d.ProfileHandler.UploadPhoto)

	g.GET("/admin", d.AdminHandler.Admin, d.Gate.RequireAdmin)
	g.GET("/admin/users", d.AdminHandler.ListUsers, d.Gate.RequireAdmin)
	g.GET("/user", d.AdminHandler.User, d.Gate.RequireRole(models.RoleUser))
}

func (d *Deps) live(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.HealthResponse{Status: "ok"})
}

func (d *Deps) ready(c echo.Context) error {
	if d.Ready != nil {
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("not_ready", "status", 503, "error", err)
			return c.JSON(http.StatusServiceUnavailable, transport.HealthResponse{Status: "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, transport.HealthResponse{Status: "ok"})
}
