package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

// StoragePointHandler alta de puntos de almacenamiento y de sus áreas CUSTOM.
type StoragePointHandler struct {
	locations *inventory.LocationService
}

// NewStoragePointHandler construye el handler.
func NewStoragePointHandler(locations *inventory.LocationService) *StoragePointHandler {
	return &StoragePointHandler{locations: locations}
}

// Create godoc
// @Summary      Crear un punto de almacenamiento con sus áreas DEFAULT
// @Tags         storage-points
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateStoragePointRequest  true  "reference, name, address"
// @Success      201   {object}  dto.StoragePointResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/storage-points [post]
func (h *StoragePointHandler) Create(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.CreateStoragePointRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	sp, err := h.locations.ProvisionStoragePoint(c.Context(), in.Reference, in.Name, in.Address, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StoragePointResponse{
		ID:        sp.ID,
		Reference: sp.Reference,
		Name:      sp.Name,
		Status:    sp.Status,
		Address:   sp.Address,
		CreatedAt: sp.CreatedAt,
	})
}

// CreateArea godoc
// @Summary      Crear un área CUSTOM en el punto de almacenamiento
// @Tags         storage-points
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Storage point ID"
// @Param        body  body      dto.CreateAreaRequest   true  "title, reference, surface, volume"
// @Success      201   {object}  dto.AreaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/storage-points/{id}/areas [post]
func (h *StoragePointHandler) CreateArea(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.CreateAreaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	area, err := h.locations.CreateArea(c.Context(), c.Params("id"), inventory.AreaInput{
		Reference: in.Reference,
		Title:     in.Title,
		Surface:   in.Surface,
		Volume:    in.Volume,
		IsVirtual: in.IsVirtual,
	}, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAreaResponse(area))
}
