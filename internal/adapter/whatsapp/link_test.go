package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID: "#M0042",
		Items: []domain.OrderItem{
			{Product: domain.Product{Name: "Burger"}, Quantity: 2},
			{Product: domain.Product{Name: "Fries"}, Quantity: 1},
		},
		Total:         decimal.RequireFromString("34"),
		PaymentMethod: domain.PaymentPixOnDelivery,
		Address:       "Rua A, 10",
	}
}

func TestSummary(t *testing.T) {
	want := "*MEME LANCHE - PEDIDO #M0042*\n\n" +
		"• 2x Burger\n" +
		"• 1x Fries\n\n" +
		"TOTAL: R$ 34.00\n" +
		"PAGAMENTO: PIX (na Entrega)\n" +
		"ENDEREÇO: Rua A, 10"

	assert.Equal(t, want, Summary("MEME LANCHE", testOrder()))
}

func TestLinkEncodesSummary(t *testing.T) {
	link := Link("+55 (22) 99864-1962", "MEME LANCHE", testOrder())

	require.True(t, strings.HasPrefix(link, "https://wa.me/5522998641962?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, Summary("MEME LANCHE", testOrder()), u.Query().Get("text"))
	assert.NotContains(t, u.RawQuery, "#")
}
