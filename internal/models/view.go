package models

import "fmt"

// View is one of the five application screens reachable after login
type View string

const (
	ViewDashboard View = "dashboard"
	ViewBooks     View = "books"
	ViewAddBook   View = "add-book"
	ViewOrders    View = "orders"
	ViewSettings  View = "settings"
)

// Views lists the sidebar destinations in menu order
var Views = []View{ViewDashboard, ViewBooks, ViewAddBook, ViewOrders, ViewSettings}

// Label returns the sidebar label for v
func (v View) Label() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewBooks:
		return "Inventory"
	case ViewAddBook:
		return "Add Book"
	case ViewOrders:
		return "Orders"
	case ViewSettings:
		return "Settings"
	default:
		return string(v)
	}
}

// ParseView converts a string into a View
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}
