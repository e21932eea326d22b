// Package report derives financial summaries from order lists. Everything
// here is a pure fold over its inputs so the same orders and date always
// produce the same report.
package report

import (
	"time"

	"github.com/dinehub/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a single line on an order.
type Item struct {
	Name     string
	Price    decimal.Decimal
	Quantity int32
	Image    string
}

// Order is the report-facing view of an order.
type Order struct {
	ID            uuid.UUID
	CustomerName  string
	OrderType     string
	TableNumber   string
	Items         []Item
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
}

// Daily is the income summary for one calendar day.
type Daily struct {
	Date           string // YYYY-MM-DD
	Orders         []Order
	TotalOrders    int
	TotalIncome    decimal.Decimal
	TotalSubtotal  decimal.Decimal
	TotalTax       decimal.Decimal
	OrdersByType   map[string]int
	PaymentMethods map[string]int
}

// BuildDaily filters orders to those completed on the given calendar day in
// loc and aggregates totals and breakdowns. Only orders whose status is
// exactly "completed" count; an order completed on another day is excluded.
func BuildDaily(orders []Order, date time.Time, loc *time.Location) Daily {
	day := date.In(loc)
	d := Daily{
		Date:          day.Format("2006-01-02"),
		TotalIncome:   decimal.Zero,
		TotalSubtotal: decimal.Zero,
		TotalTax:      decimal.Zero,
		OrdersByType: map[string]int{
			enum.OrderTypeDineIn:   0,
			enum.OrderTypeTakeaway: 0,
			enum.OrderTypeDelivery: 0,
		},
		PaymentMethods: map[string]int{},
	}

	for _, o := range orders {
		if o.Status != enum.OrderStatusCompleted {
			continue
		}
		if !sameDay(o.CreatedAt.In(loc), day) {
			continue
		}
		d.Orders = append(d.Orders, o)
		d.TotalOrders++
		d.TotalIncome = d.TotalIncome.Add(o.Total)
		d.TotalSubtotal = d.TotalSubtotal.Add(o.Subtotal)
		d.TotalTax = d.TotalTax.Add(o.Tax)
		d.OrdersByType[o.OrderType]++
		if o.PaymentMethod != "" {
			d.PaymentMethods[o.PaymentMethod]++
		}
	}

	return d
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
