// Package dashboard builds the overview screen: headline stats, the monthly
// sales series and the recent order feed.
package dashboard

import (
	"github.com/luminabooks/bookadmin/internal/models"
)

// RecentOrderLimit is how many orders the overview lists
const RecentOrderLimit = 5

// Trend is the direction of a stat's change since the previous period
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Stat is one headline card
type Stat struct {
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Trend  Trend  `json:"trend"`
}

// Overview is everything the dashboard screen renders
type Overview struct {
	Stats        []Stat              `json:"stats"`
	Sales        []models.SalesPoint `json:"sales"`
	RecentOrders []models.Order      `json:"recentOrders"`
}

// Stats returns the headline cards. The figures are fixed presentation data
// and are not derived from the catalog.
func Stats() []Stat {
	return []Stat{
		{Title: "Total Revenue", Value: "$24,500", Change: "12%", Trend: TrendUp},
		{Title: "Active Orders", Value: "45", Change: "5%", Trend: TrendUp},
		{Title: "Total Books", Value: "1,203", Change: "0.4%", Trend: TrendDown},
		{Title: "Customers", Value: "892", Change: "8%", Trend: TrendUp},
	}
}

// SalesSeries returns the monthly chart data
func SalesSeries() []models.SalesPoint {
	return []models.SalesPoint{
		{Name: "Jan", Sales: 4000, Revenue: 2400},
		{Name: "Feb", Sales: 3000, Revenue: 1398},
		{Name: "Mar", Sales: 2000, Revenue: 9800},
		{Name: "Apr", Sales: 2780, Revenue: 3908},
		{Name: "May", Sales: 1890, Revenue: 4800},
		{Name: "Jun", Sales: 2390, Revenue: 3800},
		{Name: "Jul", Sales: 3490, Revenue: 4300},
	}
}

// RecentOrders returns the first n orders in store order
func RecentOrders(orders []models.Order, n int) []models.Order {
	if n < 0 {
		n = 0
	}
	if len(orders) < n {
		n = len(orders)
	}
	return append([]models.Order{}, orders[:n]...)
}

// Build assembles the overview for the loaded orders
func Build(orders []models.Order) Overview {
	return Overview{
		Stats:        Stats(),
		Sales:        SalesSeries(),
		RecentOrders: RecentOrders(orders, RecentOrderLimit),
	}
}
