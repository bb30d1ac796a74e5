// Package pdf renders sale receipts as PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"quitanda/internal/domain/catalogs/customer"
	"quitanda/internal/domain/documents/sale"
)

// ReceiptGenerator renders receipt-style sale documents.
type ReceiptGenerator struct {
	businessName string
}

// NewReceiptGenerator creates a generator with the configured header name.
func NewReceiptGenerator(businessName string) *ReceiptGenerator {
	if businessName == "" {
		businessName = "Quitanda"
	}
	return &ReceiptGenerator{businessName: businessName}
}

// Render produces a thermal receipt-style PDF for a sale. The customer is
// optional; when given, its name is printed under the header.
func (g *ReceiptGenerator) Render(s *sale.Sale, cust *customer.Customer) ([]byte, error) {
	// A7-ish custom size, close to thermal receipt paper.
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	doc.SetMargins(4, 4, 4)
	doc.AddPage()

	pageW, _ := doc.GetPageSize()
	contentW := pageW - 8

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(contentW, 7, g.businessName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(contentW, 5, "Comprovante de Venda", "", 1, "C", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Helvetica", "B", 8)
	doc.CellFormat(contentW, 5, "Venda "+s.Number, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 7)
	doc.CellFormat(contentW, 4, s.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if cust != nil {
		doc.CellFormat(contentW, 4, "Cliente: "+cust.Name, "", 1, "L", false, 0, "")
	}
	doc.Ln(2)

	doc.Line(4, doc.GetY(), pageW-4, doc.GetY())
	doc.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	doc.SetFont("Helvetica", "B", 7)
	doc.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	doc.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	doc.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 7)
	for _, item := range s.Items {
		name := item.ProductName
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		doc.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		doc.CellFormat(col2, 5, item.Quantity.String(), "", 0, "C", false, 0, "")
		doc.CellFormat(col3, 5, "R$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	doc.Ln(2)
	doc.Line(4, doc.GetY(), pageW-4, doc.GetY())
	doc.Ln(2)

	doc.SetFont("Helvetica", "", 7)
	if !s.Discount.IsZero() {
		doc.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		doc.CellFormat(col3, 5, "-R$"+s.Discount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	doc.CellFormat(col3, 6, "R$"+s.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if s.PaymentMethod != "" {
		doc.Ln(2)
		doc.SetFont("Helvetica", "", 7)
		doc.CellFormat(contentW, 4, "Pagamento: "+s.PaymentMethod, "", 1, "L", false, 0, "")
	}

	doc.Ln(3)
	doc.SetFont("Helvetica", "I", 7)
	doc.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
