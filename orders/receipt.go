package orders

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"brewhaus/models"
	"brewhaus/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// trackingURL is what the receipt's QR code encodes: the order-status
// page pre-filled with the order number and email.
func trackingURL(base, orderNumber, email string) string {
	q := url.Values{"orderNumber": {orderNumber}, "email": {email}}
	return base + "/order-status?" + q.Encode()
}

// Receipt renders GET /api/orders/receipt/:ordernumber as a printable
// PDF with a QR code pointing at tracking.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := utils.GetSessionIDFromRequest(r)
	orderNumber := ps.ByName("ordernumber")
	email := r.URL.Query().Get("email")

	order, ok := h.Store.FindByNumber(r.Context(), sid, orderNumber, email)
	if !ok {
		if remote, err := h.Admin.LookupOrder(r.Context(), orderNumber, email); err == nil {
			order = *remote
			ok = true
		}
	}
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	base := utils.GetEnv("STOREFRONT_URL", "http://localhost:3000")
	qrPNG, err := qrcode.Encode(trackingURL(base, order.OrderNumber, order.CustomerInfo.Email), qrcode.Medium, 256)
	if err != nil {
		log.Println("receipt QR error:", err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Brewhaus Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s", order.CustomerInfo.Name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Type: %s", order.OrderType))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", order.OrderTime.Format("Jan 2 2006 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		line := fmt.Sprintf("%dx %s  %s", item.Quantity, item.Name, utils.FormatMoney(item.Price*float64(item.Quantity)))
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
		if item.SpecialInstructions != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.Cell(0, 6, "   "+item.SpecialInstructions)
			pdf.Ln(5)
			pdf.SetFont("Arial", "", 11)
		}
	}

	pdf.Ln(4)
	pdf.Cell(0, 7, fmt.Sprintf("Subtotal: %s", utils.FormatMoney(order.Subtotal)))
	pdf.Ln(6)
	if order.OrderType == models.OrderTypeDelivery {
		pdf.Cell(0, 7, fmt.Sprintf("Delivery: %s", utils.FormatMoney(order.DeliveryFee)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Tax: %s", utils.FormatMoney(order.Tax)))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", utils.FormatMoney(order.Total)))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("tracking-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("tracking-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 54)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Scan to track your order")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "receipt-"+sanitize(order.OrderNumber)+".pdf"))
	if err := pdf.Output(w); err != nil {
		log.Println("receipt PDF output error:", err)
	}
}

func sanitize(orderNumber string) string {
	out := make([]rune, 0, len(orderNumber))
	for _, r := range orderNumber {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			out = append(out, r)
		}
	}
	return string(out)
}
