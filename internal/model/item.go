package model

import "time"

// Item is the unit of the shopping list.
//
// Total is derived from Quantity and UnitPrice and is recomputed on every
// mutation that touches either field. It is never set independently.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Total     float64   `json:"total"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Recompute refreshes the derived Total field.
// Call after any change to Quantity or UnitPrice.
func (i *Item) Recompute() {
	i.Total = float64(i.Quantity) * i.UnitPrice
}

// Local reports whether the item's id is in the local identifier space,
// i.e. no remote document exists for it yet.
func (i Item) Local() bool {
	return IsLocalID(i.ID)
}

// PendingTotal returns the sum of Total across all items that are not
// completed. This is the "total pending" aggregate shown to the user.
func PendingTotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		if !it.Completed {
			sum += it.Total
		}
	}
	return sum
}

// Clone returns a copy of the item slice. Callers hand slices across
// goroutine boundaries; copying keeps the engine's collection unaliased.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
