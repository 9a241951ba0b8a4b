package wanotify

import (
	"fmt"
	"net/url"
	"strings"

	"dukaan/models"

	"github.com/skip2/go-qrcode"
)

// LinkBuilder turns an order into a wa.me deep link addressed to the shop
// operator. Building the link is pure string templating; opening it is the
// client's business.
type LinkBuilder struct {
	// Operator is the destination number in international format, digits only.
	Operator string
}

// Build renders the prefilled-message deep link for an order.
func (b LinkBuilder) Build(o models.Order) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New order %s\n", o.OrderID)
	fmt.Fprintf(&sb, "Customer: %s\n", o.CustomerInfo.Name)
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "- %s x%d @ %.2f\n", it.Name, it.Quantity, it.Price)
	}
	fmt.Fprintf(&sb, "Total: %.2f", o.TotalAmount)

	return "https://wa.me/" + b.Operator + "?text=" + url.QueryEscape(sb.String())
}

// QRPNG renders the link as a scannable QR code for printed receipts.
func QRPNG(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, 256)
}
