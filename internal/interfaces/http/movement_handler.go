package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
)

// MovementHandler consulta del libro de movimientos (protegido, solo lectura).
type MovementHandler struct {
	reports *inventory.ReportService
}

// NewMovementHandler construye el handler.
func NewMovementHandler(reports *inventory.ReportService) *MovementHandler {
	return &MovementHandler{reports: reports}
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        movement_type    query  string  false  "INTERNAL | EXTERNAL"
// @Param        trigger_type     query  string  false  "AUTO | MANUAL"
// @Param        triggered_by     query  string  false  "RECEPTION, STORAGE, INVESTIGATION, AREA_MERGE..."
// @Param        product_item_id  query  string  false  "ProductItem ID"
// @Param        location_id      query  string  false  "origen o destino"
// @Param        limit            query  int     false  "default 50, máx 500"
// @Param        offset           query  int     false  "default 0"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementFilterRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movs, err := h.reports.ListMovements(c.Context(), repository.MovementFilter{
		MovementType:  q.MovementType,
		TriggerType:   q.TriggerType,
		TriggeredBy:   q.TriggeredBy,
		ProductItemID: q.ProductItemID,
		LocationID:    q.LocationID,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: toMovementList(movs),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}
