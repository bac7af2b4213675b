package infra

// pdf.go — settlement receipt generation using go-pdf/fpdf.
// Produces an A5 summary of a liquidación:
//   - Farm name header, settlement date and state
//   - Opening balance
//   - Settled income entries table
//   - Settled expenses table (values as frozen at settlement)
//   - Inventory consumption table with the snapshot unit prices
//   - Totals and bold closing balance
//
// The output file is saved to storagePath/liquidacion_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"fincalibro/internal/model"
)

// GenerateLiquidacionPDF writes the receipt for a settlement and
// returns the absolute path of the generated file.
func GenerateLiquidacionPDF(liq *model.Liquidacion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("liquidacion_%s.pdf", liq.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Liquidación — "+liq.Finca, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, liq.Fecha.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	if liq.Estado == model.LiquidacionCancelada {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(contentW, 5, "** CANCELADA **", "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Opening balance ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.6, 6, "Caja inicial:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 6, "$"+liq.CajaInicial.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	col1 := contentW * 0.55
	col2 := contentW * 0.20
	col3 := contentW * 0.25

	// ── Income entries ───────────────────────────────────────────────────────
	if len(liq.EntradasLiquidadas) > 0 {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 5, "Entrada", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Fecha", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Valor", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, e := range liq.EntradasLiquidadas {
			desc := e.Descripcion
			if len(desc) > 30 {
				desc = desc[:29] + "…"
			}
			pdf.CellFormat(col1, 5, desc, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, e.FechaEntrada.Format("02/01"), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, "$"+e.Valor.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	// ── Expenses ─────────────────────────────────────────────────────────────
	if len(liq.GastosLiquidados) > 0 {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 5, "Gasto", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Fecha", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Valor", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, g := range liq.GastosLiquidados {
			desc := g.Descripcion
			if len(desc) > 30 {
				desc = desc[:29] + "…"
			}
			pdf.CellFormat(col1, 5, desc, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, g.Fecha.Format("02/01"), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, "-$"+g.Valor.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	// ── Inventory consumption ────────────────────────────────────────────────
	if len(liq.InventarioUsado) > 0 {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(col1, 5, "Insumo", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "Cant × Precio", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, u := range liq.InventarioUsado {
			nombre := u.NombreProducto
			if len(nombre) > 30 {
				nombre = nombre[:29] + "…"
			}
			detalle := u.Cantidad.StringFixed(2) + " × $" + u.PrecioUnitario.StringFixed(2)
			pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5, detalle, "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 5, "$"+u.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2, 6, "Total ingresos:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+liq.TotalIngresos.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 6, "Total egresos:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "-$"+liq.TotalEgresos.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 8, "CAJA FINAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 8, "$"+liq.CajaFinal.StringFixed(2), "", 1, "R", false, 0, "")

	if liq.Notas != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Notas: "+liq.Notas, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
