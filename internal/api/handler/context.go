package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pocketledger/expense-tracker/internal/api/middleware"
	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// currentUser returns the user injected by middleware.RequireSession. A
// missing value means the route was mounted without the middleware; treat it
// as unauthenticated rather than trusting anything else in the request.
func currentUser(c echo.Context) (*domain.User, error) {
	u, ok := c.Get(middleware.UserKey).(*domain.User)
	if !ok || u == nil || u.ID <= 0 {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}
