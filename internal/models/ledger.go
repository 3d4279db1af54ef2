package models

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	KindInitial EntryKind = "INITIAL"
	KindRestock EntryKind = "RESTOCK"
	KindIssue   EntryKind = "ISSUE"
)

// LedgerEntry is one immutable signed quantity change. ItemName and
// Location are recorded alongside ItemID so history survives item
// deletion and supports name-based matching in reports.
type LedgerEntry struct {
	ID        int       `json:"id"`
	ItemID    int       `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Location  string    `json:"location"`
	Delta     int       `json:"delta"`
	Kind      EntryKind `json:"kind"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
