package orders

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"dukaan/wanotify"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// PrintReceipt handles GET /api/orders/:id/receipt (admin). The PDF carries
// the order summary and a QR of the WhatsApp link so the operator can
// re-send the notification from a printed copy.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.svc.FindByOrderID(ctx, ps.ByName("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Customer: %s", order.CustomerInfo.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Phone: %s", order.CustomerInfo.Phone))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		pdf.Cell(0, 7, fmt.Sprintf("%s  x%d  @ %.2f  =  %.2f", it.Name, it.Quantity, it.Price, it.LineTotal()))
		pdf.Ln(7)
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalAmount))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))

	if order.NotificationLink != "" {
		qrPNG, qrErr := wanotify.QRPNG(order.NotificationLink)
		if qrErr != nil {
			http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
			return
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", order.OrderID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
