package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

// ItemHandler maneja recepción, guardado, reubicación y transferencias de ProductItem (protegido).
type ItemHandler struct {
	items   *inventory.ItemService
	reports *inventory.ReportService
}

// NewItemHandler construye el handler.
func NewItemHandler(items *inventory.ItemService, reports *inventory.ReportService) *ItemHandler {
	return &ItemHandler{items: items, reports: reports}
}

// OpenReception godoc
// @Summary      Abrir una recepción en borrador
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OpenReceptionRequest  true  "storage_point_id, supplier_id"
// @Success      201   {object}  dto.ReceptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/receptions [post]
func (h *ItemHandler) OpenReception(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.OpenReceptionRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	rec, err := h.items.OpenReception(c.Context(), in.StoragePointID, in.SupplierID, in.Comment, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReceptionResponse(rec))
}

// ValidateReception godoc
// @Summary      Validar una recepción con al menos una línea
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Reception ID"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/validate [post]
func (h *ItemHandler) ValidateReception(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	rec, err := h.items.ValidateReception(c.Context(), c.Params("id"), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReceptionResponse(rec))
}

// Receive godoc
// @Summary      Recibir una unidad física en una recepción
// @Description  Crea el ítem PENDING_RECEPTION/TO_STORE en la ubicación de recepción y registra el movimiento RECEPTION.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReceiveItemRequest  true  "reception_id, variant_id, purchase_cost, currency"
// @Success      201   {object}  dto.ProductItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/receive [post]
func (h *ItemHandler) Receive(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.ReceiveItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	item, err := h.items.ReceiveItem(c.Context(), inventory.ReceiveInput{
		ReceptionID:  in.ReceptionID,
		VariantID:    in.VariantID,
		LocationID:   in.LocationID,
		Barcode:      in.Barcode,
		SerialNumber: in.SerialNumber,
		PurchaseCost: in.PurchaseCost,
		Currency:     in.Currency,
		Principal:    p,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

// Store godoc
// @Summary      Guardar un ítem recibido en una ubicación
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "ProductItem ID"
// @Param        body  body      dto.StoreItemRequest  true  "target_location_id"
// @Success      200   {object}  dto.ProductItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/store [post]
func (h *ItemHandler) Store(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.StoreItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	item, err := h.items.StoreItem(c.Context(), c.Params("id"), in.TargetLocationID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// Move godoc
// @Summary      Reubicar un ítem (opcionalmente cambiando su posición)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ProductItem ID"
// @Param        body  body      dto.MoveItemRequest  true  "target_location_id, state, status"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "transición no permitida o ítem con flujo activo"
// @Router       /api/items/{id}/move [post]
func (h *ItemHandler) Move(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.MoveItemRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	mov, err := h.items.MoveItem(c.Context(), inventory.MoveInput{
		ItemID:           c.Params("id"),
		TargetLocationID: in.TargetLocationID,
		State:            in.State,
		Status:           in.Status,
		TriggeredBy:      in.TriggeredBy,
		Principal:        p,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// Pick godoc
// @Summary      Recoger un ítem para una transferencia
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ProductItem ID"
// @Param        body  body      dto.PickForTransferRequest  true  "transfer_id, mobile_unit_location_id"
// @Success      200   {object}  dto.ProductItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/pick [post]
func (h *ItemHandler) Pick(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.PickForTransferRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	item, err := h.items.PickForTransfer(c.Context(), c.Params("id"), in.TransferID, in.MobileUnitLocationID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// ReceiveTransfer godoc
// @Summary      Recibir un ítem transferido en su ubicación destino
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ProductItem ID"
// @Param        body  body      dto.ReceiveTransferRequest  true  "target_location_id"
// @Success      200   {object}  dto.ProductItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/receive-transfer [post]
func (h *ItemHandler) ReceiveTransfer(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	var in dto.ReceiveTransferRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	item, err := h.items.ReceiveTransfer(c.Context(), c.Params("id"), in.TargetLocationID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// MovementsPDF godoc
// @Summary      Historial de movimientos de un ítem en PDF
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ProductItem ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements.pdf [get]
func (h *ItemHandler) MovementsPDF(c *fiber.Ctx) error {
	p, ok, err := principal(c)
	if !ok {
		return err
	}
	id := c.Params("id")
	pdf, err := h.reports.ItemHistoryPDF(c.Context(), id, p)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "item-"+id+".pdf", pdf)
}
