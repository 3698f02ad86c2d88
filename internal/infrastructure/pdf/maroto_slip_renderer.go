// Package pdf genera el acta de asignación de una línea de recepción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° documento + proveedor  │  Línea + fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: código / nombre / SKU + contadores de stock      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | Destino | Cantidad | Prioridad | Estado      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Recibido / Asignado / Sin asignar                 │
//	│  REVERSIONES: fecha + cantidades por entrada del historial  │
//	│  FOOTER: QR con la referencia de la línea                   │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ allocation.SlipRenderer = (*MarotoSlipRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoSlipRenderer implementa allocation.SlipRenderer usando Maroto v2.
type MarotoSlipRenderer struct {
	author string
}

// NewMarotoSlipRenderer construye el renderer; author va en los metadatos del PDF.
func NewMarotoSlipRenderer(author string) *MarotoSlipRenderer {
	return &MarotoSlipRenderer{author: author}
}

// RenderSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipRenderer) RenderSlip(_ context.Context, slip *allocation.Slip) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de asignación "+slip.DocumentNumber, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(slip.Item.Allocations) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(slip.Item))

	if len(slip.Item.ResetHistory) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range resetRows(slip.Item.ResetHistory) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: documento + proveedor (izq) y línea + fecha (der).
func headerRow(slip *allocation.Slip) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(slip.DocumentNumber, string(slip.ReceivingID)), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proveedor: "+nonEmpty(slip.SupplierName, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ACTA DE ASIGNACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Línea "+string(slip.Item.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitida: "+slip.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// productRow: identidad del producto y sus contadores actuales.
func productRow(slip *allocation.Slip) core.Row {
	id := slip.Item.ProductIdentity
	stock := "Producto no encontrado en el catálogo"
	if p := slip.Product; p != nil {
		stock = fmt.Sprintf("Stock actual: %s   |   Reservado: %s   |   Disponible: %s",
			p.CurrentStock.String(), p.AllocatedStock.String(), p.AvailableStock.String())
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   %s", nonEmpty(id.Code, string(id.ProductID)), id.Name), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(stock, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de asignaciones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 2, align.Left),
		h("Destino", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Prioridad", 1, align.Center),
		h("Estado", 2, align.Center),
	)
}

// tableDetailRows: una fila por asignación vigente de la línea.
func tableDetailRows(records []entity.AllocationRecord) []core.Row {
	if len(records) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin asignaciones vigentes", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				typeLabel(r.AllocationType),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				nonEmpty(r.TargetName, string(r.TargetID)),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				nonEmpty(r.Priority, "-"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				string(r.Status),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// totalsRow: recibido, asignado y sin asignar, alineados a la derecha.
func totalsRow(item entity.LineItem) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(20).Add(
		col.New(3),
		col.New(3).Add(
			label("Recibido:"),
			label("Asignado:"),
			grandLabel("SIN ASIGNAR:"),
		),
		col.New(3).Add(
			value(item.QuantityReceived.String()),
			value(item.TotalAllocated.String()),
			grandValue(item.UnallocatedQty.String()),
		),
		col.New(3),
	)
}

// resetRows: una fila por reversión registrada en la línea.
func resetRows(history []entity.ResetEntry) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("REVERSIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, e := range history {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s   total %s (bodega %s, reservado %s)   %s",
				e.At.Format("02/01/2006 15:04"),
				e.TotalReversed.String(), e.WarehouseReversed.String(), e.ReservedReversed.String(),
				e.ResetBy,
			), props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// footerRow: QR con la referencia documento/línea y quién emitió el acta.
func footerRow(slip *allocation.Slip) core.Row {
	ref := string(slip.ReceivingID) + "/" + string(slip.Item.ID)
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Referencia: "+ref, props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Emitida por: "+nonEmpty(slip.GeneratedBy, "sistema"), props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func typeLabel(t entity.AllocationType) string {
	switch t {
	case entity.AllocationPurchaseOrder:
		return "Orden"
	case entity.AllocationProject:
		return "Proyecto"
	case entity.AllocationWarehouse:
		return "Bodega"
	}
	return string(t)
}
