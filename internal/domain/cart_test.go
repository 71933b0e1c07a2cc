package domain

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string) Product {
	return Product{ID: id, Name: "item " + id, Price: decimal.RequireFromString(price), Category: CategoryBurgers}
}

func TestCartAddMergesByProduct(t *testing.T) {
	var c Cart
	burger := product("b1", "13.50")

	c.Add(burger)
	c.Add(burger)
	c.Add(product("d1", "5.00"))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 2, c.Quantity("b1"))
	assert.Equal(t, 1, c.Quantity("d1"))
	assert.True(t, decimal.RequireFromString("32.00").Equal(c.Subtotal()))
}

func TestCartDecrementRemovesAtZero(t *testing.T) {
	var c Cart
	c.Add(product("b1", "10"))
	c.Decrement("b1")

	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Quantity("b1"))

	// a further decrement on an absent product is a no-op
	c.Decrement("b1")
	assert.True(t, c.Empty())
}

func TestCartIncrementUnknownIsNoop(t *testing.T) {
	var c Cart
	c.Increment("missing")
	assert.True(t, c.Empty())
}

func TestCartNetQuantityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c"}

	for run := 0; run < 200; run++ {
		var c Cart
		expected := map[string]int{}

		for step := 0; step < 30; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(3) {
			case 0:
				c.Add(product(id, "1"))
				expected[id]++
			case 1:
				c.Increment(id)
				if expected[id] > 0 {
					expected[id]++
				}
			case 2:
				c.Decrement(id)
				if expected[id] > 0 {
					expected[id]--
				}
			}
		}

		for _, id := range ids {
			assert.Equal(t, expected[id], c.Quantity(id), "run %d product %s", run, id)
		}
		for _, item := range c.Items {
			assert.Positive(t, item.Quantity)
		}
	}
}

func TestCartSetNote(t *testing.T) {
	var c Cart
	c.Add(product("b1", "10"))
	c.SetNote("b1", "no onions")

	assert.Equal(t, "no onions", c.Items[0].Note)
}

func TestCartSnapshotIsDetached(t *testing.T) {
	var c Cart
	c.Add(product("b1", "10"))

	snap := c.Snapshot()
	c.Clear()

	assert.Len(t, snap, 1)
	assert.True(t, c.Empty())
}

func TestCartRemoveKeepsLaterAdditions(t *testing.T) {
	var c Cart
	c.Add(product("b1", "10"))
	c.Add(product("b1", "10"))
	ordered := c.Snapshot()

	c.Add(product("b1", "10"))
	c.Add(product("f1", "5"))
	c.Remove(ordered)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Quantity("b1"))
	assert.Equal(t, 1, c.Quantity("f1"))

	c.Remove(c.Snapshot())
	assert.True(t, c.Empty())
}
