package infra

// PDF rendering with go-pdf/fpdf. Two documents:
//   - the boleta (order receipt) handed to the client on delivery
//   - the consolidado (aggregated purchase list) used at the wholesale market
// Both render to an io.Writer so handlers can stream them without touching
// disk.

import (
	"fmt"
	"io"

	"distriverde/internal/dto"

	"github.com/go-pdf/fpdf"
)

// WriteBoletaPDF renders an order receipt from the detail view. The detail
// already carries the display prices (cost-based for con-flete clients), so
// the PDF matches what the screen shows.
func WriteBoletaPDF(w io.Writer, detalle *dto.PedidoDetalleResponse) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "DistriVerde", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Boleta de pedido", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, detalle.Cliente.NombreCompleto, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, detalle.CreatedAt, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.44 // product
	col2 := contentW * 0.14 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.22 // line total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range detalle.Items {
		nombre := item.Producto
		if len(nombre) > 26 {
			nombre = nombre[:25] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, item.Cantidad.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+item.PrecioTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Freight and total ────────────────────────────────────────────────────
	if detalle.Cliente.TarifaFlete != nil {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(col1+col2+col3, 5, "Flete:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+detalle.Cliente.TarifaFlete.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+detalle.TotalMostrado.StringFixed(2), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// WriteConsolidadoPDF renders the aggregated purchase list for a market run.
func WriteConsolidadoPDF(w io.Writer, consolidado *dto.ConsolidadoResponse, titulo string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "DistriVerde", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, titulo, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	col1 := contentW * 0.55
	col2 := contentW * 0.20
	col3 := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cantidad", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Costo estimado", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range consolidado.Items {
		pdf.CellFormat(col1, 6, item.ProductoNombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.CantidadTotal.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+item.CostoEstimado.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 7, "Costo total estimado:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+consolidado.CostoTotal.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write consolidado: %w", err)
	}
	return nil
}
