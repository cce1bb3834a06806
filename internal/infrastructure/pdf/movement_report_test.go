package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

func TestRenderMovements_ProducesPDF(t *testing.T) {
	report := inventory.MovementReport{
		Title:       "Historial de movimientos del ítem",
		Subject:     "ITM-0001",
		GeneratedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		GeneratedBy: "u-1",
		Rows: []inventory.MovementRow{
			{Reference: "MVT-1", CreatedAt: time.Now(), MovementType: "EXTERNAL", TriggeredBy: "RECEPTION", Item: "ITM-0001", Source: "-", Target: "RCP", ToState: "PENDING_RECEPTION"},
			{Reference: "MVT-2", CreatedAt: time.Now(), MovementType: "INTERNAL", TriggeredBy: "STORAGE", Item: "ITM-0001", Source: "RCP", Target: "A-01", FromState: "PENDING_RECEPTION", ToState: "AVAILABLE"},
		},
	}
	out, err := NewMovementReportRenderer().RenderMovements(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderMovements_EmptyHistory(t *testing.T) {
	out, err := NewMovementReportRenderer().RenderMovements(context.Background(), inventory.MovementReport{
		Title: "Movimientos de la ubicación", Subject: "LOC-1", GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
