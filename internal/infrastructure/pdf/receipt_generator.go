// Package pdf implementa la generación del recibo de pago en PDF.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Nombre del servicio │ N° Recibo      │
//	│  ───────────────────────────────────────────  │
//	│  CASA: código + propietario + contacto        │
//	│  ───────────────────────────────────────────  │
//	│  DETALLE: descripción, fecha, estado          │
//	│  DATOS BANCARIOS (si confirmado)              │
//	│  ───────────────────────────────────────────  │
//	│  TOTAL                                        │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 160}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator genera recibos de pago usando Maroto v2.
type ReceiptGenerator struct {
	appName string
}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator(appName string) *ReceiptGenerator {
	return &ReceiptGenerator{appName: appName}
}

// GenerateReceipt genera el PDF del recibo y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(_ context.Context, payment *entity.Payment, house *entity.House) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de pago", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(payment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(houseRow(house))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detailRows(payment)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRow(payment))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del servicio (izq), número de recibo y fecha (der).
func (g *ReceiptGenerator) headerRow(payment *entity.Payment) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Servicio de agua", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE PAGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(payment.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+payment.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// houseRow: datos de la casa.
func houseRow(house *entity.House) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CASA "+house.Code, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s",
				nonEmpty(house.OwnerName, "—"),
				nonEmpty(house.Phone, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// detailRows: descripción, estado y datos bancarios si el pago está confirmado.
func detailRows(payment *entity.Payment) []core.Row {
	status := "PENDIENTE"
	if payment.Settled {
		status = "LIQUIDADO"
	} else if payment.Confirmed {
		status = "CONFIRMADO"
	}

	rows := []core.Row{
		row.New(10).Add(
			col.New(8).Add(
				text.New(nonEmpty(payment.Description, "Pago de servicio"), props.Text{Size: 9, Top: 2}),
			),
			col.New(4).Add(
				text.New(status, props.Text{
					Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary,
				}),
			),
		),
	}

	if payment.PrepaidBotellones > 0 {
		rows = append(rows, row.New(7).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Incluye %d botellones prepagados", payment.PrepaidBotellones),
					props.Text{Size: 8, Top: 1, Color: colorGray}),
			),
		))
	}

	if payment.Confirmed {
		rows = append(rows, row.New(10).Add(
			col.New(12).Add(
				text.New("DATOS BANCARIOS", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(fmt.Sprintf("Ref: %s   |   Banco: %s   |   CI: %s",
					payment.Reference, payment.Bank, payment.Identification,
				), props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		))
	}
	return rows
}

// totalRow: monto del pago.
func totalRow(payment *entity.Payment) core.Row {
	return row.New(12).Add(
		col.New(6).Add(
			text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Top: 3}),
		),
		col.New(6).Add(
			text.New("$ "+payment.Amount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
		),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
