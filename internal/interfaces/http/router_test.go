package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/application/dto"
	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/repository"
	"github.com/jhoicas/Inventario-wms/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Inventario-wms/internal/interfaces/http"
)

// buildAPI monta el router completo sobre el almacén en memoria.
func buildAPI() *fiber.App {
	store := memory.NewStore()
	repos := store.Repos()
	cfg := inventory.DefaultConfig()
	log := zerolog.Nop()

	locations := inventory.NewLocationService(repos, store, nil, cfg, log)
	items := inventory.NewItemService(repos, store, locations, inventory.NewLedger(), inventory.NewAggregator(), cfg, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Locations:      locations,
		Items:          items,
		Investigations: inventory.NewInvestigationService(repos, store, locations, items, cfg, log),
		Merge:          inventory.NewMergeService(repos, store, locations, items, cfg, log),
		Reports:        inventory.NewReportService(repos, locations, nil, cfg),
		JWTSecret:      testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRouter_AltaDeEstructura(t *testing.T) {
	app := buildAPI()
	admin := tokenForRole(t, entity.RoleAdmin)

	var sp dto.StoragePointResponse
	status := call(t, app, http.MethodPost, "/api/storage-points", admin,
		dto.CreateStoragePointRequest{Reference: "SP1", Name: "Bodega"}, &sp)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.StoragePointOpen, sp.Status)

	var area dto.AreaResponse
	status = call(t, app, http.MethodPost, "/api/storage-points/"+sp.ID+"/areas", admin,
		dto.CreateAreaRequest{Title: "Zona A"}, &area)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.AreaTypeCustom, area.Type)

	var loc dto.LocationResponse
	status = call(t, app, http.MethodPost, "/api/locations", admin,
		dto.CreateLocationRequest{AreaID: area.ID, Name: "Rack 1", Reference: "R-1"}, &loc)
	require.Equal(t, http.StatusCreated, status)

	var res dto.StoragePointResolution
	status = call(t, app, http.MethodGet, "/api/locations/"+loc.ID+"/storage-point", admin, nil, &res)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, sp.ID, res.StoragePointID)
}

func TestRouter_PatchAreaConserva(t *testing.T) {
	app := buildAPI()
	admin := tokenForRole(t, entity.RoleAdmin)

	var sp dto.StoragePointResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/storage-points", admin,
		dto.CreateStoragePointRequest{Reference: "SP1", Name: "Bodega"}, &sp))
	var area dto.AreaResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/storage-points/"+sp.ID+"/areas", admin,
		dto.CreateAreaRequest{Title: "Patio", Surface: decimal.NewFromInt(9)}, &area))

	var updated dto.AreaResponse
	status := call(t, app, http.MethodPatch, "/api/areas/"+area.ID, admin,
		map[string]string{"reference": "PATIO-1"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PATIO-1", updated.Reference)

	status = call(t, app, http.MethodPatch, "/api/areas/"+area.ID, admin,
		map[string]string{"title": "Patio norte"}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PATIO-1", updated.Reference)
	assert.Equal(t, "Patio norte", updated.Title)
	assert.True(t, updated.Surface.Equal(decimal.NewFromInt(9)), "surface se conserva")

	var e dto.ErrorResponse
	status = call(t, app, http.MethodPatch, "/api/areas/"+area.ID, admin, map[string]string{"title": ""}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_PaginaDeMovimientos(t *testing.T) {
	app := buildAPI()
	admin := tokenForRole(t, entity.RoleAdmin)

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements", admin, nil, &list))
	assert.Equal(t, repository.DefaultMovementLimit, list.Page.Limit)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements?limit=500", admin, nil, &list))
	assert.Equal(t, repository.MaxMovementLimit, list.Page.Limit)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/movements?limit=501", admin, nil, &e))
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	app := buildAPI()
	admin := tokenForRole(t, entity.RoleAdmin)

	var e dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/locations/missing/ancestors", admin, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = call(t, app, http.MethodPost, "/api/locations", admin, dto.CreateLocationRequest{}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)

	status = call(t, app, http.MethodPost, "/api/areas/merge", admin,
		dto.MergeAreasRequest{SourceAreaID: "a", TargetAreaID: "a"}, &e)
	assert.Equal(t, http.StatusBadRequest, status, "origen y destino iguales")

	status = call(t, app, http.MethodPost, "/api/investigations/x/close", admin,
		dto.CloseInvestigationRequest{Status: "REOPENED", Comment: "x"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)

	status = call(t, app, http.MethodPost, "/api/storage-points", tokenForRole(t, entity.RoleBodeguero),
		dto.CreateStoragePointRequest{Reference: "SP2", Name: "Otra"}, &e)
	assert.Equal(t, http.StatusForbidden, status)

	status = call(t, app, http.MethodPost, "/api/items/x/move", tokenForRole(t, entity.RoleVendedor),
		dto.MoveItemRequest{}, &e)
	assert.Equal(t, http.StatusForbidden, status, "vendedor solo consulta")
}

func TestRouter_SinToken(t *testing.T) {
	app := buildAPI()
	status := call(t, app, http.MethodGet, "/api/movements", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
