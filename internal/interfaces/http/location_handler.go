package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

// LocationHandler maneja la jerarquía de áreas y ubicaciones (protegido).
type LocationHandler struct {
	locations *inventory.LocationService
	merge     *inventory.MergeService
	reports   *inventory.ReportService
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locations *inventory.LocationService, merge *inventory.MergeService, reports *inventory.ReportService) *LocationHandler {
	return &LocationHandler{locations: locations, merge: merge, reports: reports}
}

// Ancestors godoc
// @Summary      Cadena de ancestros de una ubicación (raíz primero, incluida)
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {array}   dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/ancestors [get]
func (h *LocationHandler) Ancestors(c *fiber.Ctx) error {
	locs, err := h.locations.FindAncestors(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLocationList(locs))
}

// Descendants godoc
// @Summary      Descendientes de una ubicación (lista plana)
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {array}   dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/descendants [get]
func (h *LocationHandler) Descendants(c *fiber.Ctx) error {
	locs, err := h.locations.FindDescendants(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLocationList(locs))
}

// Tree godoc
// @Summary      Árbol anidado bajo una ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  dto.LocationTreeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/tree [get]
func (h *LocationHandler) Tree(c *fiber.Ctx) error {
	node, err := h.locations.FindDescendantsTree(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toLocationTree(node))
}

// StoragePoint godoc
// @Summary      Punto de almacenamiento al que pertenece una ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  dto.StoragePointResolution
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse  "INTEGRITY_FAULT: ubicación sin área raíz"
// @Router       /api/locations/{id}/storage-point [get]
func (h *LocationHandler) StoragePoint(c *fiber.Ctx) error {
	id := c.Params("id")
	spID, err := h.locations.ResolveStoragePointForLocation(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StoragePointResolution{LocationID: id, StoragePointID: spID})
}

// CreateLocation godoc
// @Summary      Crear ubicación (raíz de un área o hija de otra ubicación)
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateLocationRequest  true  "area_id o parent_id, name"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) CreateLocation(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.CreateLocationRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	loc, err := h.locations.CreateLocation(c.Context(), toLocationInput(in), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLocationResponse(loc))
}

// MovementsPDF godoc
// @Summary      Historial de movimientos de una ubicación en PDF
// @Tags         locations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "Location ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/movements.pdf [get]
func (h *LocationHandler) MovementsPDF(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Params("id")
	pdf, err := h.reports.LocationHistoryPDF(c.Context(), id, p)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "location-"+id+".pdf", pdf)
}

// UpdateArea godoc
// @Summary      Editar parcialmente un área CUSTOM
// @Tags         areas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Area ID"
// @Param        body  body      dto.UpdateAreaRequest  true  "campos a cambiar; los ausentes se conservan"
// @Success      200   {object}  dto.AreaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "área DEFAULT"
// @Router       /api/areas/{id} [patch]
func (h *LocationHandler) UpdateArea(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.UpdateAreaRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	area, err := h.locations.UpdateArea(c.Context(), c.Params("id"), inventory.AreaPatch{
		Reference: in.Reference,
		Title:     in.Title,
		Surface:   in.Surface,
		Volume:    in.Volume,
		IsVirtual: in.IsVirtual,
	}, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAreaResponse(area))
}

// DeleteArea godoc
// @Summary      Eliminar un área CUSTOM vacía
// @Tags         areas
// @Security     Bearer
// @Param        id   path      string  true  "Area ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse  "área DEFAULT o con ítems"
// @Router       /api/areas/{id} [delete]
func (h *LocationHandler) DeleteArea(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	if err := h.locations.DeleteArea(c.Context(), c.Params("id"), p); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MergeAreas godoc
// @Summary      Fusionar un área en otra del mismo punto de almacenamiento
// @Description  Mueve cada ítem de las ubicaciones mapeadas (un movimiento AREA_MERGE por ítem) y elimina el área origen.
// @Tags         areas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MergeAreasRequest  true  "source_area_id, target_area_id, mappings"
// @Success      200   {object}  dto.MergeAreasResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/areas/merge [post]
func (h *LocationHandler) MergeAreas(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.MergeAreasRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	mappings := make([]inventory.LocationMapping, 0, len(in.Mappings))
	for _, m := range in.Mappings {
		mapping := inventory.LocationMapping{SourceLocationID: m.SourceLocationID, TargetLocationID: m.TargetLocationID}
		if m.NewLocation != nil {
			mapping.NewLocation = &inventory.LocationInput{
				ParentID:  m.NewLocation.ParentID,
				Reference: m.NewLocation.Reference,
				Barcode:   m.NewLocation.Barcode,
				Name:      m.NewLocation.Name,
				IsVirtual: m.NewLocation.IsVirtual,
			}
		}
		mappings = append(mappings, mapping)
	}
	res, err := h.merge.MergeAreas(c.Context(), inventory.MergeInput{
		SourceAreaID: in.SourceAreaID,
		TargetAreaID: in.TargetAreaID,
		Mappings:     mappings,
		Principal:    p,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MergeAreasResponse{
		SourceAreaID:     res.SourceAreaID,
		TargetAreaID:     res.TargetAreaID,
		MovedItems:       res.MovedItems,
		CreatedLocations: toLocationList(res.CreatedLocations),
		Movements:        toMovementList(res.Movements),
	})
}

func toLocationInput(in dto.CreateLocationRequest) inventory.LocationInput {
	return inventory.LocationInput{
		AreaID:    in.AreaID,
		ParentID:  in.ParentID,
		Reference: in.Reference,
		Barcode:   in.Barcode,
		Name:      in.Name,
		IsVirtual: in.IsVirtual,
	}
}

func sendPDF(c *fiber.Ctx, filename string, pdf []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
