package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

// InvestigationHandler maneja apertura y cierre de investigaciones (protegido).
type InvestigationHandler struct {
	investigations *inventory.InvestigationService
}

// NewInvestigationHandler construye el handler.
func NewInvestigationHandler(investigations *inventory.InvestigationService) *InvestigationHandler {
	return &InvestigationHandler{investigations: investigations}
}

// Open godoc
// @Summary      Abrir una investigación sobre un ítem disponible
// @Tags         investigations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenInvestigationRequest  true  "product_item_id, comment"
// @Success      201   {object}  dto.InvestigationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/investigations [post]
func (h *InvestigationHandler) Open(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.OpenInvestigationRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	inv, err := h.investigations.OpenInvestigation(c.Context(), in.ProductItemID, in.Comment, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvestigationResponse(inv))
}

// Close godoc
// @Summary      Cerrar una investigación (CLOSED = pérdida, SOLVED = encontrado)
// @Description  Mueve el ítem a DEAD_STOCK en una sola transacción; SOLVED crea además una recepción validada.
// @Tags         investigations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                         true  "Investigation ID"
// @Param        body  body      dto.CloseInvestigationRequest  true  "status, comment"
// @Success      200   {object}  dto.CloseInvestigationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse  "INTEGRITY_FAULT: anclas del almacén ausentes"
// @Router       /api/investigations/{id}/close [post]
func (h *InvestigationHandler) Close(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.CloseInvestigationRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	res, err := h.investigations.CloseInvestigation(c.Context(), inventory.CloseInput{
		InvestigationID: c.Params("id"),
		Status:          in.Status,
		Comment:         in.Comment,
		Principal:       p,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.CloseInvestigationResponse{
		Investigation: toInvestigationResponse(res.Investigation),
		Item:          toItemResponse(res.Item),
	}
	if res.Movement != nil {
		mov := toMovementResponse(res.Movement)
		out.Movement = &mov
	}
	if res.Reception != nil {
		rec := toReceptionResponse(res.Reception)
		out.Reception = &rec
	}
	return c.JSON(out)
}
