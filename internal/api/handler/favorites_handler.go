package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type FavoritesHandler struct {
	favorites ports.FavoritesService
	log       zerolog.Logger
}

func NewFavoritesHandler(favorites ports.FavoritesService, log zerolog.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, log: log}
}

// Toggle adds or removes the posted vehicle and returns to its detail page.
func (h *FavoritesHandler) Toggle(c echo.Context) error {
	vehicleID, ok := parseID(c.FormValue("inv_id"))
	if !ok {
		return echo.ErrNotFound
	}
	id := middleware.IdentityOf(c)

	saved, err := h.favorites.Toggle(c.Request().Context(), id.AccountID, vehicleID)
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return echo.ErrNotFound
	case err != nil:
		h.log.Error().Err(err).Int64("account_id", id.AccountID).Int64("inv_id", vehicleID).Msg("toggle favorite failed")
		addNotice(c, "Could not update favorite.")
	case saved:
		addNotice(c, "Added to your favorites.")
	default:
		addNotice(c, "Removed from your favorites.")
	}
	return seeOther(c, fmt.Sprintf("/inv/detail/%d", vehicleID))
}

// List renders the caller's favorites, newest first.
func (h *FavoritesHandler) List(c echo.Context) error {
	id := middleware.IdentityOf(c)
	favorites, err := h.favorites.List(c.Request().Context(), id.AccountID)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}
	return view(c, http.StatusOK, "favorites/list", echo.Map{
		"title":     "My Favorites",
		"favorites": favorites,
	})
}
