package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
)

// view renders name with the caller's identity and pending notices added to
// data.
func view(c echo.Context, status int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["identity"] = middleware.IdentityOf(c)
	data["notices"] = takeNotices(c)
	if _, ok := data["errors"]; !ok {
		data["errors"] = domain.FieldErrors(nil)
	}
	return c.Render(status, name, data)
}

// parseID reads a positive integer id. ok is false for anything else.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ownerOrAdmin rejects callers editing someone else's account unless they
// are an admin.
func ownerOrAdmin(c echo.Context, accountID int64) error {
	id := middleware.IdentityOf(c)
	if id.AccountID == accountID || id.Role == domain.RoleAdmin {
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
}

// formError re-renders a form with field messages and status 400. Errors
// that are not validation failures propagate.
func formError(c echo.Context, name string, data echo.Map, err error) error {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	data["errors"] = fe
	return view(c, http.StatusBadRequest, name, data)
}

func seeOther(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
