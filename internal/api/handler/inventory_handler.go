package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/validation"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	defaultImage     = "/images/vehicles/no-image.png"
	defaultThumbnail = "/images/vehicles/no-image-tn.png"
)

// InventoryHandler serves the public inventory pages and the staff
// management screens.
type InventoryHandler struct {
	pages
	inventory ports.InventoryService
	comments  ports.CommentService
}

func NewInventoryHandler(
	inventory ports.InventoryService,
	comments ports.CommentService,
	pipeline *validation.Pipeline,
	log zerolog.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		pages:     pages{nav: inventory, pipeline: pipeline, log: log},
		inventory: inventory,
		comments:  comments,
	}
}

func vehicleTitle(v *domain.Vehicle) string {
	return fmt.Sprintf("%d %s", v.Year, v.Name())
}

func (h *InventoryHandler) Home(c echo.Context) error {
	return h.show(c, http.StatusOK, "home", "Home", nil, nil, nil)
}

// ByClassification lists the vehicles of one classification.
func (h *InventoryHandler) ByClassification(c echo.Context) error {
	id, ok := pathID(c, "classificationId")
	if !ok {
		return domain.ErrClassificationNotFound
	}
	cl, list, err := h.inventory.ByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}
	data := view.ClassificationData{Classification: *cl, Vehicles: list}
	return h.show(c, http.StatusOK, "classification", cl.Name+" Vehicles", nil, nil, data)
}

// Detail shows one vehicle with its comments.
func (h *InventoryHandler) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "invId")
	if !ok {
		return domain.ErrVehicleNotFound
	}
	v, err := h.inventory.Vehicle(ctx, id)
	if err != nil {
		return err
	}
	list, err := h.comments.ByInventory(ctx, id)
	if err != nil {
		return err
	}
	data := view.DetailData{Vehicle: *v, Comments: list, ViewerID: auth.IdentityOf(c).AccountID()}
	return h.show(c, http.StatusOK, "detail", vehicleTitle(v), &commentForm{InventoryID: v.ID}, nil, data)
}

func (h *InventoryHandler) Management(c echo.Context) error {
	return h.show(c, http.StatusOK, "management", "Vehicle Management", nil, nil, nil)
}

func (h *InventoryHandler) AddClassificationPage(c echo.Context) error {
	return h.show(c, http.StatusOK, "add-classification", "Add New Classification", &classificationForm{}, nil, nil)
}

func (h *InventoryHandler) AddClassification(c echo.Context) error {
	ctx := c.Request().Context()
	form := new(classificationForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusUnprocessableEntity, "add-classification", "Add New Classification", form, errs, nil)
	}

	cl, err := h.inventory.AddClassification(ctx, form.Name)
	if errors.Is(err, domain.ErrClassificationExists) {
		return h.converge(c, http.StatusUnprocessableEntity, "add-classification", "Add New Classification", form,
			validation.Errors{"classification_name": "That classification already exists."}, nil)
	}
	if err != nil {
		return err
	}
	return redirect(c, "/inv/", fmt.Sprintf("The %s classification was successfully added.", cl.Name))
}

func (h *InventoryHandler) AddVehiclePage(c echo.Context) error {
	form := &vehicleForm{Image: defaultImage, Thumbnail: defaultThumbnail}
	return h.show(c, http.StatusOK, "add-inventory", "Add New Vehicle", form, nil, nil)
}

func (h *InventoryHandler) AddVehicle(c echo.Context) error {
	ctx := c.Request().Context()
	form := new(vehicleForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}
	form.InventoryID = 0

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusUnprocessableEntity, "add-inventory", "Add New Vehicle", form, errs, nil)
	}

	created, err := h.inventory.AddVehicle(ctx, form.vehicle())
	if errors.Is(err, domain.ErrClassificationNotFound) {
		return h.converge(c, http.StatusUnprocessableEntity, "add-inventory", "Add New Vehicle", form,
			validation.Errors{"classification_id": "Please choose a classification."}, nil)
	}
	if err != nil {
		return err
	}
	return redirect(c, "/inv/", fmt.Sprintf("The %s was successfully added.", created.Name()))
}

func (h *InventoryHandler) EditPage(c echo.Context) error {
	id, ok := pathID(c, "invId")
	if !ok {
		return domain.ErrVehicleNotFound
	}
	v, err := h.inventory.Vehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.show(c, http.StatusOK, "edit-inventory", "Edit "+v.Name(), vehicleFormOf(v), nil, nil)
}

func (h *InventoryHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	form := new(vehicleForm)
	if err := c.Bind(form); err != nil || form.InventoryID <= 0 {
		return errBadForm
	}
	title := "Edit " + form.Make + " " + form.Model

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		return h.converge(c, http.StatusUnprocessableEntity, "edit-inventory", title, form, errs, nil)
	}

	updated, err := h.inventory.UpdateVehicle(ctx, form.vehicle())
	if errors.Is(err, domain.ErrClassificationNotFound) {
		return h.converge(c, http.StatusUnprocessableEntity, "edit-inventory", title, form,
			validation.Errors{"classification_id": "Please choose a classification."}, nil)
	}
	if err != nil {
		return err
	}
	return redirect(c, "/inv/", fmt.Sprintf("The %s was successfully updated.", updated.Name()))
}

func (h *InventoryHandler) DeletePage(c echo.Context) error {
	id, ok := pathID(c, "invId")
	if !ok {
		return domain.ErrVehicleNotFound
	}
	v, err := h.inventory.Vehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return h.show(c, http.StatusOK, "delete-confirm", "Delete "+v.Name(), nil, nil, *v)
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	var form struct {
		InventoryID int64 `form:"inv_id"`
	}
	if err := c.Bind(&form); err != nil || form.InventoryID <= 0 {
		return errBadForm
	}
	deleted, err := h.inventory.DeleteVehicle(c.Request().Context(), form.InventoryID)
	if err != nil {
		return err
	}
	return redirect(c, "/inv/", fmt.Sprintf("The %s was successfully deleted.", deleted.Name()))
}

// InventoryJSON returns the vehicles of a classification as JSON.
//
// @Summary      List vehicles by classification
// @Tags         inventory
// @Produce      json
// @Param        classification_id  path      int  true  "Classification ID"
// @Success      200                {array}   domain.Vehicle
// @Failure      401                {object}  map[string]string
// @Failure      403                {object}  map[string]string
// @Failure      404                {object}  map[string]string
// @Router       /inv/getInventory/{classification_id} [get]
func (h *InventoryHandler) InventoryJSON(c echo.Context) error {
	id, ok := pathID(c, "classification_id")
	if !ok {
		return domain.ErrClassificationNotFound
	}
	_, list, err := h.inventory.ByClassification(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.Vehicle{}
	}
	return c.JSON(http.StatusOK, list)
}
