package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/middleware/auth"
	"github.com/Skotchmaster/userauth/internal/models"
	"github.com/Skotchmaster/userauth/internal/transport"
	"github.com/Skotchmaster/userauth/internal/util"
)

type AdminHTTP struct {
	Directory directory.Directory
}

func (h *AdminHTTP) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Welcome, admin " + auth.UserFrom(c).Email})
}

func (h *AdminHTTP) User(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Welcome, user " + auth.UserFrom(c).Email})
}

// ListUsers serves GET /admin/users?q=&page=&size=.
func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_users")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, users, err := h.Directory.Search(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		l.Error("directory_search_failed", "status", 500, "error", err)
		return httpError(err)
	}
	if users == nil {
		users = []models.User{}
	}

	return c.JSON(http.StatusOK, transport.DirectoryResponse{
		Total: total,
		Page:  from/limit + 1,
		Size:  limit,
		Users: users,
	})
}
