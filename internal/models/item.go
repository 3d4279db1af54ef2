package models

// Item is a location-variant of an inventory item: the same item name may
// have one row per location. Quantity is the cached current stock derived
// from the ledger.
type Item struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// LowStock reports whether the variant is at or below its threshold.
func (i Item) LowStock() bool {
	return i.Quantity <= i.Threshold
}
