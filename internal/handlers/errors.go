package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	appmw "github.com/sajidul-dev/feedline/backend/internal/middleware"
)

// httpError translates a service error kind into the wire-level status.
func httpError(err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case apperrors.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// currentUser reads the authenticated identity set by the JWT middleware.
func currentUser(c echo.Context) (userID, username string) {
	userID, _ = c.Get(appmw.ContextUserID).(string)
	username, _ = c.Get(appmw.ContextUsername).(string)
	return userID, username
}
