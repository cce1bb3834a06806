package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Locations      *inventory.LocationService
	Items          *inventory.ItemService
	Investigations *inventory.InvestigationService
	Merge          *inventory.MergeService
	Reports        *inventory.ReportService
	JWTSecret      string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	operators := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	storagePointHandler := NewStoragePointHandler(deps.Locations)
	locationHandler := NewLocationHandler(deps.Locations, deps.Merge, deps.Reports)
	itemHandler := NewItemHandler(deps.Items, deps.Reports)
	investigationHandler := NewInvestigationHandler(deps.Investigations)
	movementHandler := NewMovementHandler(deps.Reports)

	// Storage points
	storagePoints := protected.Group("/storage-points")
	storagePoints.Post("/", RequireRole(entity.RoleAdmin), storagePointHandler.Create)
	storagePoints.Post("/:id/areas", operators, storagePointHandler.CreateArea)

	// Locations
	locations := protected.Group("/locations")
	locations.Get("/:id/ancestors", locationHandler.Ancestors)
	locations.Get("/:id/descendants", locationHandler.Descendants)
	locations.Get("/:id/tree", locationHandler.Tree)
	locations.Get("/:id/storage-point", locationHandler.StoragePoint)
	locations.Get("/:id/movements.pdf", locationHandler.MovementsPDF)
	locations.Post("/", operators, locationHandler.CreateLocation)

	// Areas
	areas := protected.Group("/areas", operators)
	areas.Post("/merge", locationHandler.MergeAreas)
	areas.Patch("/:id", locationHandler.UpdateArea)
	areas.Delete("/:id", locationHandler.DeleteArea)

	// Receptions
	receptions := protected.Group("/receptions", operators)
	receptions.Post("/", itemHandler.OpenReception)
	receptions.Post("/:id/validate", itemHandler.ValidateReception)

	// Items
	items := protected.Group("/items")
	items.Get("/:id/movements.pdf", itemHandler.MovementsPDF)
	items.Post("/receive", operators, itemHandler.Receive)
	items.Post("/:id/store", operators, itemHandler.Store)
	items.Post("/:id/move", operators, itemHandler.Move)
	items.Post("/:id/pick", operators, itemHandler.Pick)
	items.Post("/:id/receive-transfer", operators, itemHandler.ReceiveTransfer)

	// Investigations
	investigations := protected.Group("/investigations", operators)
	investigations.Post("/", investigationHandler.Open)
	investigations.Post("/:id/close", investigationHandler.Close)

	// Movements
	protected.Get("/movements", movementHandler.List)
}
