package handler

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-repair-shop/internal/queue"
	"github.com/iliyamo/vehicle-repair-shop/internal/repository"
)

// RepairStore is the repository surface the repair endpoints need.
type RepairStore interface {
	List(ctx context.Context, limit, offset int) ([]repository.Repair, int, error)
	GetByID(ctx context.Context, id uint64) (*repository.Repair, error)
	Create(ctx context.Context, rec *repository.Repair) error
	Update(ctx context.Context, rec *repository.Repair) error
	Delete(ctx context.Context, id uint64) error
}

// ImageSaver persists an uploaded file and returns its public path.
type ImageSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// RepairHandler bundles dependencies for the repair CRUD endpoints.  Publish
// is optional; when set, status events are emitted after create/update
// without ever failing the request.
type RepairHandler struct {
	Repairs RepairStore
	Images  ImageSaver
	Publish func(ctx context.Context, ev queue.RepairStatusEvent) error
}

func NewRepairHandler(repairs RepairStore, images ImageSaver) *RepairHandler {
	if repairs == nil || images == nil {
		panic("nil dependency passed to NewRepairHandler")
	}
	return &RepairHandler{Repairs: repairs, Images: images}
}

func validRepairStatus(s string) bool {
	switch s {
	case repository.StatusPending, repository.StatusInProgress, repository.StatusCompleted:
		return true
	}
	return false
}

// ListRepairs handles GET /api/repairs?page=&limit=.
func (h *RepairHandler) ListRepairs(c echo.Context) error {
	limit, offset := pageParams(c)
	items, total, err := h.Repairs.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"repairs": items, "total": total})
}

// GetRepair handles GET /api/repairs/:id.
func (h *RepairHandler) GetRepair(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, err := h.Repairs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRepairNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "repair not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rec)
}

// CreateRepair handles POST /api/repairs.  The body is multipart form data
// with an optional "image" file part.
func (h *RepairHandler) CreateRepair(c echo.Context) error {
	rec, errMsg := h.bindRepairForm(c)
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

	if err := h.Repairs.Create(c.Request().Context(), rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create repair"})
	}
	h.publishStatus(rec)
	return c.JSON(http.StatusCreated, echo.Map{"id": rec.ID})
}

// UpdateRepair handles PUT /api/repairs/:id.  When the form carries neither
// a new image file nor an "image" field, the stored reference is kept.
func (h *RepairHandler) UpdateRepair(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rec, errMsg := h.bindRepairForm(c)
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
		prev, err := h.Repairs.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrRepairNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "repair not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		rec.Image = prev.Image
	}

	if err := h.Repairs.Update(ctx, rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publishStatus(rec)
	return c.JSON(http.StatusOK, echo.Map{"message": "repair updated"})
}

// DeleteRepair handles DELETE /api/repairs/:id.  Deleting an unknown id is
// an idempotent no-op and still answers 200.
func (h *RepairHandler) DeleteRepair(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Repairs.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "repair deleted"})
}

// bindRepairForm reads and validates the multipart fields shared by create
// and update.  The returned message is empty on success.
func (h *RepairHandler) bindRepairForm(c echo.Context) (*repository.Repair, string) {
	rec := &repository.Repair{
		Brand:   strings.TrimSpace(c.FormValue("brand")),
		Model:   strings.TrimSpace(c.FormValue("model")),
		Problem: strings.TrimSpace(c.FormValue("problem")),
		Status:  strings.TrimSpace(c.FormValue("status")),
	}
	if rec.Brand == "" || rec.Model == "" {
		return nil, "brand and model are required"
	}
	if rec.Status == "" {
		rec.Status = repository.StatusPending
	}
	if !validRepairStatus(rec.Status) {
		return nil, "invalid status"
	}
	var err error
	if rec.Year, err = formInt(c, "year"); err != nil {
		return nil, "invalid year"
	}
	if rec.Price, err = formFloat(c, "price"); err != nil {
		return nil, "invalid price"
	}
	return rec, ""
}

// publishStatus emits a status event in the background; failures are logged
// by the publisher and never surface to the client.
func (h *RepairHandler) publishStatus(rec *repository.Repair) {
	if h.Publish == nil {
		return
	}
	ev := queue.RepairStatusEvent{
		RepairID:  rec.ID,
		Status:    rec.Status,
		Brand:     rec.Brand,
		Model:     rec.Model,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("repair handler: publish status event failed: %v", err)
		}
	}()
}
