package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-service/internal/api/metrics"
	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// ProfileHandler serves the authenticated caller's own account.
type ProfileHandler struct {
	credentials ports.CredentialService
}

func NewProfileHandler(credentials ports.CredentialService) *ProfileHandler {
	return &ProfileHandler{credentials: credentials}
}

// Get returns the caller's profile.
//
// @Summary      Get my profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserView
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.credentials.Profile(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Update applies a partial profile update gated on the current password.
//
// @Summary      Update my profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change plus the current password"
// @Success      200   {object}  domain.AuthResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/profile/update [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	started := time.Now()
	res, err := h.credentials.UpdateMyData(c.Request().Context(), identity, domain.ProfileUpdate{
		Name:      req.Name,
		Surnames:  req.Surnames,
		Email:     req.Email,
		Telephone: req.Telephone,
	}, req.CurrentPassword)
	metrics.ObserveCredentialOp("update_profile", started, err)
	if err != nil {
		return err
	}

	return c.JSON(res.StatusCode, res)
}
