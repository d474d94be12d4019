package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/expense-tracker/internal/api/metrics"
	"github.com/pocketledger/expense-tracker/internal/api/middleware"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      middleware.SessionCookie
}

func NewAuthHandler(authService ports.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a new user account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) (err error) {
	defer func() { recordAuth("register", err) }()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, sess, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.cookie.Issue(c, sess)
	metrics.SessionsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) (err error) {
	defer func() { recordAuth("login", err) }()

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, sess, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.cookie.Issue(c, sess)
	metrics.SessionsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout destroys the current session, if any, and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) (err error) {
	defer func() { recordAuth("logout", err) }()

	sid := h.cookie.Value(c)
	h.cookie.Clear(c)

	if err := h.authService.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func recordAuth(operation string, err error) {
	result := "success"
	if err != nil {
		_, result, _ = Classify(err)
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
