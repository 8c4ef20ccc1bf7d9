package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// AdminHandler serves the administrative user directory.
type AdminHandler struct {
	directory ports.UserDirectory
}

func NewAdminHandler(directory ports.UserDirectory) *AdminHandler {
	return &AdminHandler{directory: directory}
}

// ListUsers searches users. Every query parameter other than page and size is
// passed on as a filter; unknown filters are ignored.
//
// @Summary      Search users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page     query     int     false  "Zero-based page number"
// @Param        size     query     int     false  "Page size (max 100)"
// @Param        role     query     string  false  "Exact role: ADMIN, STAFF or CUSTOMER"
// @Param        general  query     string  false  "Case-insensitive match on name, email or role"
// @Success      200      {object}  domain.UserPage
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /users/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", domain.DefaultPageSize)
	if err != nil {
		return err
	}

	filters := make(map[string]string)
	for key, values := range c.QueryParams() {
		if key == "page" || key == "size" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	result, err := h.directory.SearchUsers(c.Request().Context(), filters, domain.Page{Number: page, Size: size})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetUser returns a single user by id.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.UserView
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/admin/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	view, err := h.directory.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}
