package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const InventoryPath = "/inv/"

type InventoryHandler struct {
	inventory ports.InventoryService
	favorites ports.FavoritesService
	log       zerolog.Logger
}

func NewInventoryHandler(inventory ports.InventoryService, favorites ports.FavoritesService, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, favorites: favorites, log: log}
}

type classificationForm struct {
	Name string `form:"classification_name" validate:"required,alphanum,max=30"`
}

func (classificationForm) FieldMessages() map[string]string {
	return map[string]string{
		"classification_name": "Provide a classification name with letters and numbers only, no spaces.",
	}
}

type vehicleForm struct {
	ID               int64   `form:"inv_id"`
	ClassificationID int64   `form:"classification_id" validate:"gt=0"`
	Make             string  `form:"inv_make"          validate:"required,max=50"`
	Model            string  `form:"inv_model"         validate:"required,max=50"`
	Year             int     `form:"inv_year"          validate:"gte=1900,lte=2100"`
	Description      string  `form:"inv_description"   validate:"required"`
	Image            string  `form:"inv_image"         validate:"max=255"`
	Thumbnail        string  `form:"inv_thumbnail"     validate:"max=255"`
	Price            float64 `form:"inv_price"         validate:"gte=0"`
	Miles            int     `form:"inv_miles"         validate:"gte=0"`
	Color            string  `form:"inv_color"         validate:"required,max=30"`
}

func (vehicleForm) FieldMessages() map[string]string {
	return map[string]string{
		"classification_id": "Please select a classification.",
		"inv_make":          "Please enter a make.",
		"inv_model":         "Please enter a model.",
		"inv_year":          "Please enter a valid year between 1900 and 2100.",
		"inv_description":   "Please provide a description.",
		"inv_price":         "Price must be a positive number.",
		"inv_miles":         "Miles must be a positive integer.",
		"inv_color":         "Please enter a color.",
	}
}

func (f *vehicleForm) trim() {
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	f.Thumbnail = strings.TrimSpace(f.Thumbnail)
	f.Color = strings.TrimSpace(f.Color)
}

func (f *vehicleForm) input() ports.VehicleInput {
	return ports.VehicleInput{
		ID:               f.ID,
		ClassificationID: f.ClassificationID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.Price,
		Miles:            f.Miles,
		Color:            f.Color,
	}
}

func (f *vehicleForm) vehicle() *domain.Vehicle {
	return &domain.Vehicle{
		ID:               f.ID,
		ClassificationID: f.ClassificationID,
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Price:            f.Price,
		Miles:            f.Miles,
		Color:            f.Color,
	}
}

// Home renders the landing page.
func (h *InventoryHandler) Home(c echo.Context) error {
	return view(c, http.StatusOK, "index", echo.Map{"title": "Home"})
}

// ByClassification lists the vehicles of one classification.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, ok := parseID(c.Param("classificationId"))
	if !ok {
		return echo.ErrNotFound
	}
	vehicles, err := h.inventory.ByClassification(c.Request().Context(), id)
	if errors.Is(err, domain.ErrClassificationNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("classification %d: %w", id, err)
	}
	return view(c, http.StatusOK, "inventory/classification", echo.Map{
		"title":    vehicles[0].ClassificationName + " Vehicles",
		"vehicles": vehicles,
	})
}

// Detail renders one vehicle. Logged-in callers also see whether it is one
// of their favorites.
func (h *InventoryHandler) Detail(c echo.Context) error {
	vehicle, err := h.vehicle(c, c.Param("inv_id"))
	if err != nil {
		return err
	}

	favorite := false
	if id := middleware.IdentityOf(c); id.LoggedIn {
		favorite, err = h.favorites.IsFavorite(c.Request().Context(), id.AccountID, vehicle.ID)
		if err != nil {
			h.log.Warn().Err(err).Int64("inv_id", vehicle.ID).Msg("favorite lookup failed")
		}
	}

	return view(c, http.StatusOK, "inventory/detail", echo.Map{
		"title":    fmt.Sprintf("%d %s", vehicle.Year, vehicle.Name()),
		"vehicle":  vehicle,
		"favorite": favorite,
	})
}

// CauseError fails on purpose so the error page can be checked.
func (h *InventoryHandler) CauseError(c echo.Context) error {
	return errors.New("intentional error triggered for testing")
}

// Management renders the inventory management page.
func (h *InventoryHandler) Management(c echo.Context) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return fmt.Errorf("inventory management: %w", err)
	}
	return view(c, http.StatusOK, "inventory/management", echo.Map{
		"title":           "Vehicle Management",
		"classifications": classifications,
	})
}

func (h *InventoryHandler) AddClassificationView(c echo.Context) error {
	return view(c, http.StatusOK, "inventory/add-classification", echo.Map{"title": "Add New Classification"})
}

// AddClassification creates a classification from the form.
func (h *InventoryHandler) AddClassification(c echo.Context) error {
	var form classificationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Name = strings.TrimSpace(form.Name)
	data := echo.Map{"title": "Add New Classification", "classification_name": form.Name}

	if err := c.Validate(&form); err != nil {
		return formError(c, "inventory/add-classification", data, err)
	}

	created, err := h.inventory.AddClassification(c.Request().Context(), form.Name)
	switch {
	case errors.Is(err, domain.ErrClassificationExists):
		return formError(c, "inventory/add-classification", data,
			domain.FieldErrors{"classification_name": "That classification already exists."})
	case err != nil:
		h.log.Error().Err(err).Msg("add classification failed")
		addNotice(c, "Sorry, adding the classification failed.")
		return view(c, http.StatusInternalServerError, "inventory/add-classification", data)
	}

	addNotice(c, fmt.Sprintf("New classification %s added.", created.Name))
	return seeOther(c, InventoryPath)
}

func (h *InventoryHandler) AddVehicleView(c echo.Context) error {
	return h.vehicleForm(c, http.StatusOK, "inventory/add-inventory", "Add New Vehicle", &domain.Vehicle{}, nil)
}

// AddVehicle creates a vehicle from the form.
func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return h.vehicleForm(c, http.StatusBadRequest, "inventory/add-inventory", "Add New Vehicle", &domain.Vehicle{},
			domain.FieldErrors{"form": "Please check the numeric fields."})
	}
	form.trim()
	form.ID = 0

	if err := c.Validate(&form); err != nil {
		return h.vehicleFormError(c, "inventory/add-inventory", "Add New Vehicle", form.vehicle(), err)
	}

	created, err := h.inventory.AddVehicle(c.Request().Context(), form.input())
	if err != nil {
		h.log.Error().Err(err).Msg("add vehicle failed")
		addNotice(c, "Sorry, adding the vehicle failed.")
		return h.vehicleForm(c, http.StatusInternalServerError, "inventory/add-inventory", "Add New Vehicle", form.vehicle(), nil)
	}

	addNotice(c, fmt.Sprintf("The %s was successfully added.", created.Name()))
	return seeOther(c, InventoryPath)
}

// EditView renders the edit form for a vehicle.
func (h *InventoryHandler) EditView(c echo.Context) error {
	vehicle, err := h.vehicle(c, c.Param("inv_id"))
	if err != nil {
		return err
	}
	return h.vehicleForm(c, http.StatusOK, "inventory/edit-inventory", "Edit "+vehicle.Name(), vehicle, nil)
}

// UpdateVehicle saves the edit form.
func (h *InventoryHandler) UpdateVehicle(c echo.Context) error {
	var form vehicleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.trim()
	if form.ID <= 0 {
		return echo.ErrNotFound
	}
	title := "Edit " + form.vehicle().Name()

	if err := c.Validate(&form); err != nil {
		return h.vehicleFormError(c, "inventory/edit-inventory", title, form.vehicle(), err)
	}

	updated, err := h.inventory.UpdateVehicle(c.Request().Context(), form.input())
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return echo.ErrNotFound
	case err != nil:
		h.log.Error().Err(err).Int64("inv_id", form.ID).Msg("update vehicle failed")
		addNotice(c, "Sorry, the update failed.")
		return h.vehicleForm(c, http.StatusInternalServerError, "inventory/edit-inventory", title, form.vehicle(), nil)
	}

	addNotice(c, fmt.Sprintf("The %s was successfully updated.", updated.Name()))
	return seeOther(c, InventoryPath)
}

// DeleteView asks for confirmation before deleting a vehicle.
func (h *InventoryHandler) DeleteView(c echo.Context) error {
	vehicle, err := h.vehicle(c, c.Param("inv_id"))
	if err != nil {
		return err
	}
	return view(c, http.StatusOK, "inventory/delete-confirm", echo.Map{
		"title":   "Delete " + vehicle.Name(),
		"vehicle": vehicle,
	})
}

// DeleteVehicle removes the vehicle named by the form.
func (h *InventoryHandler) DeleteVehicle(c echo.Context) error {
	id, ok := parseID(c.FormValue("inv_id"))
	if !ok {
		return echo.ErrNotFound
	}

	err := h.inventory.DeleteVehicle(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return echo.ErrNotFound
	case err != nil:
		h.log.Error().Err(err).Int64("inv_id", id).Msg("delete vehicle failed")
		addNotice(c, "Sorry, the delete failed.")
		return seeOther(c, fmt.Sprintf("/inv/delete/%d", id))
	}

	addNotice(c, "The deletion was successful.")
	return seeOther(c, InventoryPath)
}

func (h *InventoryHandler) vehicle(c echo.Context, raw string) (*domain.Vehicle, error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, echo.ErrNotFound
	}
	vehicle, err := h.inventory.Vehicle(c.Request().Context(), id)
	if errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, echo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", id, err)
	}
	return vehicle, nil
}

func (h *InventoryHandler) vehicleForm(c echo.Context, status int, name, title string, v *domain.Vehicle, errs domain.FieldErrors) error {
	classifications, err := h.inventory.Classifications(c.Request().Context())
	if err != nil {
		return fmt.Errorf("vehicle form: %w", err)
	}
	return view(c, status, name, echo.Map{
		"title":           title,
		"vehicle":         v,
		"classifications": classifications,
		"errors":          errs,
	})
}

func (h *InventoryHandler) vehicleFormError(c echo.Context, name, title string, v *domain.Vehicle, err error) error {
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	return h.vehicleForm(c, http.StatusBadRequest, name, title, v, fe)
}
