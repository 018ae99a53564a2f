package dashboard

import (
	"fmt"
	"testing"

	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/stretchr/testify/assert"
)

func orders(n int) []models.Order {
	out := make([]models.Order, n)
	for i := range out {
		out[i] = models.Order{ID: fmt.Sprintf("ord-%03d", i+1)}
	}
	return out
}

func TestRecentOrders(t *testing.T) {
	tests := []struct {
		name     string
		orders   []models.Order
		n        int
		expected int
	}{
		{name: "fewer than limit", orders: orders(3), n: 5, expected: 3},
		{name: "more than limit", orders: orders(8), n: 5, expected: 5},
		{name: "none", orders: nil, n: 5, expected: 0},
		{name: "negative limit", orders: orders(2), n: -1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RecentOrders(tt.orders, tt.n)
			assert.Len(t, result, tt.expected)
			assert.NotNil(t, result)
			if tt.expected > 0 {
				assert.Equal(t, "ord-001", result[0].ID)
			}
		})
	}
}

func TestRecentOrdersCopies(t *testing.T) {
	src := orders(2)
	result := RecentOrders(src, 5)
	result[0].ID = "changed"
	assert.Equal(t, "ord-001", src[0].ID)
}

func TestBuild(t *testing.T) {
	o := Build(orders(7))

	assert.Len(t, o.Stats, 4)
	assert.Equal(t, TrendDown, o.Stats[2].Trend)
	assert.Len(t, o.Sales, 7)
	assert.Equal(t, "Jan", o.Sales[0].Name)
	assert.Equal(t, "Jul", o.Sales[6].Name)
	assert.Len(t, o.RecentOrders, RecentOrderLimit)
}
