// Package pdf genera el historial de movimientos (libro de stock) de un ítem o una ubicación.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + referencia      │  QR referencia + fecha   │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Mov. | Causa | Ítem | Origen | Destino | ... │
//	│  ──────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos + usuario                      │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Inventario-wms/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorZebra   = &props.Color{Red: 240, Green: 244, Blue: 248}
)

var _ inventory.ReportRenderer = (*MovementReportRenderer)(nil)

// MovementReportRenderer implementa inventory.ReportRenderer usando Maroto v2.
type MovementReportRenderer struct{}

// NewMovementReportRenderer construye el generador.
func NewMovementReportRenderer() *MovementReportRenderer { return &MovementReportRenderer{} }

// RenderMovements genera el PDF y devuelve sus bytes.
func (g *MovementReportRenderer) RenderMovements(_ context.Context, report inventory.MovementReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report inventory.MovementReport) core.Row {
	return row.New(22).Add(
		col.New(9).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Referencia: "+report.Subject, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 9,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(report.Subject, props.Rect{Percent: 90, Center: true})),
	)
}

var columns = []struct {
	label string
	size  int
}{
	{"Fecha", 2}, {"Mov.", 1}, {"Causa", 1}, {"Ítem", 2}, {"Origen", 2}, {"Destino", 2}, {"Estado", 2},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRows(rows []inventory.MovementRow) []core.Row {
	if len(rows) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New("Sin movimientos registrados", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		})))}
	}
	out := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		values := []string{
			r.CreatedAt.Format("02/01/2006 15:04"),
			r.MovementType,
			r.TriggeredBy,
			r.Item,
			r.Source,
			r.Target,
			nonEmpty(r.FromState, "—") + " → " + nonEmpty(r.ToState, "—"),
		}
		cols := make([]core.Col, 0, len(columns))
		for j, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[j], props.Text{Size: 7, Top: 1, Left: 1})))
		}
		rw := row.New(6).Add(cols...)
		if i%2 == 1 {
			rw.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		out = append(out, rw)
	}
	return out
}

func footerRow(report inventory.MovementReport) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Total de movimientos: %d", len(report.Rows)), props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 2,
		})),
		col.New(6).Add(text.New("Usuario: "+nonEmpty(report.GeneratedBy, "—"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
