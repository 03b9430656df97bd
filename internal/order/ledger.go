package order

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"
)

// salesWindow is how many recent orders the dashboard chart shows.
const salesWindow = 7

// Ledger holds every placed order, newest first. It is not safe for
// concurrent use.
type Ledger struct {
	orders []Order
}

func NewLedger(orders []Order) *Ledger {
	l := &Ledger{}
	l.Replace(orders)
	return l
}

// Replace swaps the whole ledger, used when restoring persisted state.
func (l *Ledger) Replace(orders []Order) {
	l.orders = make([]Order, 0, len(orders))
	for _, o := range orders {
		l.orders = append(l.orders, o.clone())
	}
}

// Append puts o at the front of the ledger.
func (l *Ledger) Append(o Order) {
	l.orders = slices.Insert(l.orders, 0, o.clone())
}

func (l *Ledger) Len() int {
	return len(l.orders)
}

func (l *Ledger) All() []Order {
	out := make([]Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.clone())
	}
	return out
}

func (l *Ledger) Get(id string) (Order, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Order{}, ErrOrderNotFound
	}
	return l.orders[i].clone(), nil
}

// ByUser yields userID's orders in ledger order. The sequence reads the
// ledger lazily and can be ranged over again.
func (l *Ledger) ByUser(userID string) iter.Seq[Order] {
	return func(yield func(Order) bool) {
		for _, o := range l.orders {
			if o.UserID != userID {
				continue
			}
			if !yield(o.clone()) {
				return
			}
		}
	}
}

// UpdateStatus overwrites the status of the matching order. Any status may
// follow any other. ok is false when no order has orderID.
func (l *Ledger) UpdateStatus(orderID string, status Status) (ok bool, err error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	i := l.indexOf(orderID)
	if i < 0 {
		return false, nil
	}
	l.orders[i].Status = status
	return true, nil
}

func (l *Ledger) Stats() Stats {
	st := Stats{
		TotalRevenue: decimal.Zero,
		TotalOrders:  len(l.orders),
		Sales:        []SalesPoint{},
	}

	customers := map[string]struct{}{}
	for _, o := range l.orders {
		st.TotalRevenue = st.TotalRevenue.Add(o.Total)
		if o.Status == StatusPending {
			st.PendingOrders++
		}
		customers[o.UserID] = struct{}{}
	}
	st.Customers = len(customers)

	// newest first in the ledger, oldest first on the chart
	n := min(salesWindow, len(l.orders))
	for i := n - 1; i >= 0; i-- {
		o := l.orders[i]
		st.Sales = append(st.Sales, SalesPoint{Date: o.Date, Amount: o.Total})
	}

	return st
}

func (l *Ledger) indexOf(id string) int {
	return slices.IndexFunc(l.orders, func(o Order) bool { return o.ID == id })
}
