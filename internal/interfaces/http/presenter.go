package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/domain"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

var validate = validator.New()

// bind parsea el body y aplica los tags validate. Responde 400 y devuelve false si falla.
func bind(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}

// principal devuelve el principal autenticado o responde 401.
func principal(c *fiber.Ctx) (entity.Principal, bool, error) {
	p, ok := GetPrincipal(c)
	if !ok || p.UserID == "" {
		return p, false, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	return p, true, nil
}

// writeError traduce la taxonomía de errores del dominio a HTTP.
// Las causas específicas se evalúan antes que ErrConflict porque los errores
// de la fase transaccional envuelven ambas.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrIntegrityFault):
		status, code = fiber.StatusInternalServerError, "INTEGRITY_FAULT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidOperation):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_OPERATION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func toLocationResponse(l *entity.Location) dto.LocationResponse {
	values := make([]dto.CurrencyAmountDTO, 0, len(l.StockValue))
	for _, v := range l.StockValue {
		values = append(values, dto.CurrencyAmountDTO{Currency: v.Currency, Amount: v.Amount})
	}
	return dto.LocationResponse{
		ID:          l.ID,
		Reference:   l.Reference,
		Barcode:     l.Barcode,
		Name:        l.Name,
		AreaID:      l.AreaID,
		ParentID:    l.ParentID,
		Path:        l.Path,
		Depth:       l.Depth,
		DefaultType: l.DefaultType,
		TotalItems:  l.TotalItems,
		StockValue:  values,
		IsVirtual:   l.IsVirtual,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toLocationList(locs []*entity.Location) []dto.LocationResponse {
	out := make([]dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, toLocationResponse(l))
	}
	return out
}

func toLocationTree(n *entity.LocationNode) dto.LocationTreeResponse {
	out := dto.LocationTreeResponse{
		LocationResponse: toLocationResponse(n.Location),
		Children:         make([]dto.LocationTreeResponse, 0, len(n.Children)),
	}
	for _, ch := range n.Children {
		out.Children = append(out.Children, toLocationTree(ch))
	}
	return out
}

func toAreaResponse(a *entity.Area) dto.AreaResponse {
	return dto.AreaResponse{
		ID:             a.ID,
		StoragePointID: a.StoragePointID,
		Reference:      a.Reference,
		Title:          a.Title,
		Type:           a.Type,
		DefaultType:    a.DefaultType,
		Surface:        a.Surface,
		Volume:         a.Volume,
		IsVirtual:      a.IsVirtual,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toContext(ctx entity.ItemContext) *dto.ItemContextDTO {
	if ctx.IsZero() {
		return nil
	}
	return &dto.ItemContextDTO{Kind: ctx.Kind, ID: ctx.ID}
}

func toItemResponse(it *entity.ProductItem) dto.ProductItemResponse {
	return dto.ProductItemResponse{
		ID:           it.ID,
		Reference:    it.Reference,
		Barcode:      it.Barcode,
		SerialNumber: it.SerialNumber,
		VariantID:    it.VariantID,
		ProductID:    it.ProductID,
		SupplierID:   it.SupplierID,
		PurchaseCost: it.PurchaseCost,
		Currency:     it.Currency,
		State:        it.State,
		Status:       it.Status,
		LocationID:   it.LocationID,
		Context:      toContext(it.Context),
		UpdatedAt:    it.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		Reference:        m.Reference,
		MovementType:     m.MovementType,
		TriggerType:      m.TriggerType,
		TriggeredBy:      m.TriggeredBy,
		ProductItemID:    m.ProductItemID,
		SourceLocationID: m.Source.ID,
		TargetLocationID: m.Target.ID,
		FromState:        m.FromState,
		ToState:          m.ToState,
		Context:          toContext(m.Context),
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

func toMovementList(movs []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toReceptionResponse(r *entity.Reception) dto.ReceptionResponse {
	return dto.ReceptionResponse{
		ID:             r.ID,
		Reference:      r.Reference,
		StoragePointID: r.StoragePointID,
		SupplierID:     r.SupplierID,
		Status:         r.Status,
		Comment:        r.Comment,
		ValidatedAt:    r.ValidatedAt,
		ValidatedBy:    r.ValidatedBy,
		CreatedAt:      r.CreatedAt,
	}
}

func toInvestigationResponse(inv *entity.Investigation) dto.InvestigationResponse {
	return dto.InvestigationResponse{
		ID:             inv.ID,
		Reference:      inv.Reference,
		ProductItemID:  inv.ProductItemID,
		StoragePointID: inv.StoragePointID,
		Status:         inv.Status,
		Comment:        inv.Comment,
		OpenedBy:       inv.OpenedBy,
		ClosedBy:       inv.ClosedBy,
		ClosedAt:       inv.ClosedAt,
		CreatedAt:      inv.CreatedAt,
	}
}
