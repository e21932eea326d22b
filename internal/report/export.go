package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// WriteCSV serializes the report as sectioned CSV: summary, breakdown by
// order type, breakdown by payment method, then the detailed rows.
func WriteCSV(w io.Writer, d Daily) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Daily Income Report", d.Date},
		{},
		{"Summary"},
		{"Total Orders", strconv.Itoa(d.TotalOrders)},
		{"Total Income", d.TotalIncome.StringFixed(2)},
		{"Subtotal", d.TotalSubtotal.StringFixed(2)},
		{"Tax", d.TotalTax.StringFixed(2)},
		{},
		{"Orders by Type"},
	}
	for _, orderType := range []string{"dine-in", "takeaway", "delivery"} {
		records = append(records, []string{orderType, strconv.Itoa(d.OrdersByType[orderType])})
	}

	records = append(records, []string{}, []string{"Payment Methods"})
	for _, method := range sortedKeys(d.PaymentMethods) {
		records = append(records, []string{method, strconv.Itoa(d.PaymentMethods[method])})
	}

	records = append(records, []string{},
		[]string{"Order ID", "Customer", "Type", "Table", "Items", "Payment", "Time", "Subtotal", "Tax", "Total"})
	for _, o := range d.Orders {
		records = append(records, []string{
			o.ID.String(),
			customerLabel(o),
			o.OrderType,
			o.TableNumber,
			itemsLabel(o),
			o.PaymentMethod,
			o.CreatedAt.Format("15:04"),
			o.Subtotal.StringFixed(2),
			o.Tax.StringFixed(2),
			o.Total.StringFixed(2),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WritePDF renders the report as a paginated tabular PDF.
func WritePDF(w io.Writer, d Daily) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Daily Income Report", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, d.Date, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Summary block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	summary := [][2]string{
		{"Total Orders", strconv.Itoa(d.TotalOrders)},
		{"Total Income", d.TotalIncome.StringFixed(2)},
		{"Subtotal", d.TotalSubtotal.StringFixed(2)},
		{"Tax", d.TotalTax.StringFixed(2)},
	}
	for _, row := range summary {
		pdf.CellFormat(50, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Breakdowns
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Orders by Type", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, orderType := range []string{"dine-in", "takeaway", "delivery"} {
		pdf.CellFormat(50, 6, orderType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, strconv.Itoa(d.OrdersByType[orderType]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Payment Methods", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, method := range sortedKeys(d.PaymentMethods) {
		pdf.CellFormat(50, 6, method, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, strconv.Itoa(d.PaymentMethods[method]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Detailed rows
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Orders", "", 1, "L", false, 0, "")
	writeOrderTableHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	for _, o := range d.Orders {
		pdf.CellFormat(25, 6, shortID(o.ID.String()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, customerLabel(o), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, o.OrderType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, itemsLabel(o), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, o.PaymentMethod, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, o.CreatedAt.Format("15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(23, 6, o.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeOrderTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	headers := []struct {
		label string
		width float64
	}{
		{"Order ID", 25},
		{"Customer", 35},
		{"Type", 22},
		{"Items", 45},
		{"Payment", 20},
		{"Time", 15},
		{"Total", 23},
	}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(h.width, 6, h.label, "1", ln, "L", false, 0, "")
	}
}

func customerLabel(o Order) string {
	if o.CustomerName == "" {
		return "Guest"
	}
	return o.CustomerName
}

func itemsLabel(o Order) string {
	s := ""
	for i, item := range o.Items {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("%s x %d", item.Name, item.Quantity)
	}
	return s
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return "#" + id[len(id)-6:]
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
