package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-service/internal/api/metrics"
	"github.com/99minutos/accounts-service/internal/core/domain"
	"github.com/99minutos/accounts-service/internal/core/ports"
)

// AuthHandler serves the unauthenticated credential endpoints.
type AuthHandler struct {
	credentials ports.CredentialService
}

func NewAuthHandler(credentials ports.CredentialService) *AuthHandler {
	return &AuthHandler{credentials: credentials}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  domain.AuthResult
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /users/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	started := time.Now()
	res, err := h.credentials.Register(c.Request().Context(), domain.RegistrationRequest{
		Name:      req.Name,
		Surnames:  req.Surnames,
		Email:     req.Email,
		Telephone: req.Telephone,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
	})
	metrics.ObserveCredentialOp("register", started, err)
	if err != nil {
		return err
	}

	return c.JSON(res.StatusCode, res)
}

// Login authenticates a user and returns an access and a refresh token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.AuthResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	started := time.Now()
	res, err := h.credentials.Login(c.Request().Context(), req.Email, req.Password)
	metrics.ObserveCredentialOp("login", started, err)
	if err != nil {
		return err
	}

	return c.JSON(res.StatusCode, res)
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  domain.AuthResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	started := time.Now()
	res, err := h.credentials.Refresh(c.Request().Context(), req.RefreshToken)
	metrics.ObserveCredentialOp("refresh", started, err)
	if err != nil {
		return err
	}

	return c.JSON(res.StatusCode, res)
}
