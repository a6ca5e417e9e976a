package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-repair-shop/internal/repository"
)

// DetailStore is the repository surface the spare-part endpoints need.
type DetailStore interface {
	List(ctx context.Context, limit, offset int) ([]repository.Detail, int, error)
	GetByID(ctx context.Context, id uint64) (*repository.Detail, error)
	Create(ctx context.Context, rec *repository.Detail) error
	Update(ctx context.Context, rec *repository.Detail) error
	Delete(ctx context.Context, id uint64) error
}

// DetailHandler bundles dependencies for the spare-part CRUD endpoints.
type DetailHandler struct {
	Details DetailStore
	Images  ImageSaver
}

func NewDetailHandler(details DetailStore, images ImageSaver) *DetailHandler {
	if details == nil || images == nil {
		panic("nil dependency passed to NewDetailHandler")
	}
	return &DetailHandler{Details: details, Images: images}
}

// ListDetails handles GET /api/details?page=&limit=.
func (h *DetailHandler) ListDetails(c echo.Context) error {
	limit, offset := pageParams(c)
	items, total, err := h.Details.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"details": items, "total": total})
}

// GetDetail handles GET /api/details/:id.
func (h *DetailHandler) GetDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, err := h.Details.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDetailNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "detail not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rec)
}

// CreateDetail handles POST /api/details with an optional "image" file part.
func (h *DetailHandler) CreateDetail(c echo.Context) error {
	rec, errMsg := bindDetailForm(c)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
	}

	if fh, err := c.FormFile("image"); err == nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
		}
		rec.Image = &path
	}

	if err := h.Details.Create(c.Request().Context(), rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create detail"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rec.ID})
}

// UpdateDetail handles PUT /api/details/:id.  Image semantics mirror
// UpdateRepair: no new file and no "image" field keeps the stored reference.
func (h *DetailHandler) UpdateDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, errMsg := bindDetailForm(c)
	if errMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errMsg})
	}
	rec.ID = id

	ctx := c.Request().Context()
	if fh, err := c.FormFile("image"); err == nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
		}
		rec.Image = &path
	} else if v := c.FormValue("image"); v != "" {
		rec.Image = &v
	} else {
		prev, err := h.Details.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrDetailNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "detail not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		rec.Image = prev.Image
	}

	if err := h.Details.Update(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "detail updated"})
}

// DeleteDetail handles DELETE /api/details/:id; unknown ids still answer 200.
func (h *DetailHandler) DeleteDetail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Details.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "detail deleted"})
}

func bindDetailForm(c echo.Context) (*repository.Detail, string) {
	rec := &repository.Detail{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		IsAvailable: c.FormValue("is_available") == "true",
	}
	if rec.Name == "" {
		return nil, "name is required"
	}
	var err error
	if rec.Price, err = formFloat(c, "price"); err != nil {
		return nil, "invalid price"
	}
	if rec.Quantity, err = formInt(c, "quantity"); err != nil {
		return nil, "invalid quantity"
	}
	if rec.Weight, err = formFloat(c, "weight"); err != nil {
		return nil, "invalid weight"
	}
	return rec, ""
}
