package domain

import "github.com/shopspring/decimal"

// Cart is the in-memory list of products a customer accumulates before
// checkout. Entries are unique by product id and always have quantity >= 1.
type Cart struct {
	Items []OrderItem `json:"items"`
}

// Add merges by product identity: an existing entry gains one unit, a new
// product is appended with quantity 1.
func (c *Cart) Add(p Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, OrderItem{Product: p, Quantity: 1})
}

func (c *Cart) Increment(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity++
	}
}

// Decrement floors at zero and drops the entry once it gets there.
func (c *Cart) Decrement(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity--
	if c.Items[i].Quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) SetNote(productID, note string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Note = note
	}
}

func (c *Cart) Quantity(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Remove takes away the given quantities, dropping entries that reach zero.
// Units added after items was read stay in the cart.
func (c *Cart) Remove(items []OrderItem) {
	for _, it := range items {
		i := c.indexOf(it.Product.ID)
		if i < 0 {
			continue
		}
		c.Items[i].Quantity -= it.Quantity
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.Items)
}

// Snapshot returns a copy safe to hand out of the owning service.
func (c *Cart) Snapshot() []OrderItem {
	out := make([]OrderItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
