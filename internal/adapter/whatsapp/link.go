// Package whatsapp builds the click-to-chat link handed back after checkout.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

const baseURL = "https://wa.me/"

// Summary renders the order the way the store expects it in the chat.
func Summary(storeName string, o *domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s - PEDIDO %s*\n\n", storeName, o.ID)
	for i, item := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %dx %s", item.Quantity, item.Product.Name)
	}
	fmt.Fprintf(&b, "\n\nTOTAL: R$ %s\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "PAGAMENTO: %s\n", o.PaymentMethod.Label())
	fmt.Fprintf(&b, "ENDEREÇO: %s", o.Address)

	return b.String()
}

// Link returns https://wa.me/<number>?text=<summary>.
func Link(number, storeName string, o *domain.Order) string {
	digits, _ := domain.NormalizePhone(number)
	return baseURL + digits + "?text=" + url.QueryEscape(Summary(storeName, o))
}
