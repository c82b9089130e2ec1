package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/validation"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// noticeNotAllowed is shown for every ownership denial. It does not say
// whether the comment exists.
const noticeNotAllowed = "Sorry, that action is not allowed."

const moderationLimit = 50

// CommentHandler serves comment posting, editing and moderation.
type CommentHandler struct {
	pages
	comments  ports.CommentService
	inventory ports.InventoryService
}

func NewCommentHandler(
	comments ports.CommentService,
	inventory ports.InventoryService,
	pipeline *validation.Pipeline,
	log zerolog.Logger,
) *CommentHandler {
	return &CommentHandler{
		pages:     pages{nav: inventory, pipeline: pipeline, log: log},
		comments:  comments,
		inventory: inventory,
	}
}

// Post adds a comment to a vehicle. A rejected comment re-renders the
// vehicle page with the text and the error.
func (h *CommentHandler) Post(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	form := new(commentForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		if form.InventoryID <= 0 {
			return errBadForm
		}
		return h.renderDetail(c, http.StatusUnprocessableEntity, form.InventoryID, form, errs)
	}

	if _, err := h.comments.Post(ctx, claims.AccountID, form.InventoryID, form.Text); err != nil {
		return err
	}
	return redirect(c, detailPath(form.InventoryID), "Comment posted.")
}

func (h *CommentHandler) renderDetail(c echo.Context, status int, inventoryID int64, form *commentForm, errs validation.Errors) error {
	v, err := h.inventory.Vehicle(c.Request().Context(), inventoryID)
	if err != nil {
		return err
	}
	list, err := h.comments.ByInventory(c.Request().Context(), inventoryID)
	if err != nil {
		return err
	}
	data := view.DetailData{Vehicle: *v, Comments: list, ViewerID: auth.IdentityOf(c).AccountID()}
	return h.converge(c, status, "detail", vehicleTitle(v), form, errs, data)
}

// EditPage shows the edit form for one of the caller's comments.
func (h *CommentHandler) EditPage(c echo.Context) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	invID, _ := strconv.ParseInt(c.QueryParam("inv_id"), 10, 64)
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return h.deny(c, "edit", invID)
	}

	comment, err := h.comments.ForEdit(c.Request().Context(), claims.AccountID, commentID)
	if errors.Is(err, domain.ErrAuthorizationDenied) {
		return h.deny(c, "edit", invID)
	}
	if err != nil {
		return err
	}

	form := &editCommentForm{CommentID: comment.ID, InventoryID: comment.InventoryID, Text: comment.Text}
	return h.show(c, http.StatusOK, "edit-comment", "Edit Comment", form, nil, nil)
}

// Update replaces the text of one of the caller's comments.
func (h *CommentHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	form := new(editCommentForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	errs, err := h.pipeline.Run(ctx, form)
	if err != nil {
		return err
	}
	if errs != nil {
		if errs.Has("comment_id") {
			return h.deny(c, "update", form.InventoryID)
		}
		return h.converge(c, http.StatusUnprocessableEntity, "edit-comment", "Edit Comment", form, errs, nil)
	}

	updated, err := h.comments.Update(ctx, claims.AccountID, form.CommentID, form.Text)
	if errors.Is(err, domain.ErrAuthorizationDenied) {
		return h.deny(c, "update", form.InventoryID)
	}
	if err != nil {
		return err
	}
	return redirect(c, detailPath(updated.InventoryID), "Comment updated.")
}

// Delete removes one of the caller's comments.
func (h *CommentHandler) Delete(c echo.Context) error {
	claims, err := claimsOf(c)
	if err != nil {
		return err
	}
	form := new(deleteCommentForm)
	if err := c.Bind(form); err != nil {
		return errBadForm
	}

	deleted, err := h.comments.Delete(c.Request().Context(), claims.AccountID, form.CommentID)
	if errors.Is(err, domain.ErrAuthorizationDenied) {
		return h.deny(c, "delete", form.InventoryID)
	}
	if err != nil {
		return err
	}
	return redirect(c, detailPath(deleted.InventoryID), "Comment deleted.")
}

// Moderation lists the most recent comments for staff. It is read-only:
// staff cannot edit or delete comments they do not own.
func (h *CommentHandler) Moderation(c echo.Context) error {
	list, err := h.comments.Recent(c.Request().Context(), moderationLimit)
	if err != nil {
		return err
	}
	return h.show(c, http.StatusOK, "moderation", "Comment Moderation", nil, nil, list)
}

// deny answers an ownership failure. Missing and foreign comments take the
// same path, and the target is computed from the request alone.
func (h *CommentHandler) deny(c echo.Context, action string, inventoryID int64) error {
	metrics.OwnershipDeniedTotal.WithLabelValues(action).Inc()
	return redirect(c, fallbackTarget(c, inventoryID), noticeNotAllowed)
}
