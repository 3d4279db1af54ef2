package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

type ClaimRow struct {
	ItemName  string    `json:"item_name"`
	Location  string    `json:"location"`
	Quantity  int       `json:"quantity"`
	ClaimedBy string    `json:"claimed_by"`
	Actor     string    `json:"actor"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ClaimsReport lists issue-kind entries within the window. The claimant
// label is extracted from the free-text reason on a best-effort basis;
// unmatched formats yield "-", which is expected rather than an error.
func (e *Engine) ClaimsReport(location string, start, end time.Time) ([]ClaimRow, error) {
	f := repo.LedgerFilter{
		Since: &start,
		Until: &end,
		Kind:  models.KindIssue,
	}
	if location != AllLocations {
		f.Location = location
	}

	entries, err := e.ledger.GetAll(f)
	if err != nil {
		return nil, err
	}

	rows := make([]ClaimRow, 0, len(entries))
	for _, en := range entries {
		qty := en.Delta
		if qty < 0 {
			qty = -qty
		}
		rows = append(rows, ClaimRow{
			ItemName:  en.ItemName,
			Location:  en.Location,
			Quantity:  qty,
			ClaimedBy: claimedBy(en.Reason),
			Actor:     en.Actor,
			IssuedAt:  en.CreatedAt,
		})
	}
	return rows, nil
}

var claimPrefixes = []string{"issued to", "claimed by"}

// claimedBy extracts a claimant label from an unstructured reason: text
// after a known case-insensitive prefix, else text after the final
// separator, else "-".
func claimedBy(reason string) string {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "-"
	}

	lower := strings.ToLower(r)
	for _, prefix := range claimPrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(strings.TrimLeft(r[len(prefix):], " :-"))
			if rest != "" {
				return rest
			}
			return "-"
		}
	}

	for _, sep := range []string{" - ", ": "} {
		if idx := strings.LastIndex(r, sep); idx >= 0 {
			rest := strings.TrimSpace(r[idx+len(sep):])
			if rest != "" {
				return rest
			}
		}
	}

	return "-"
}

// ClaimsTable renders claim rows for tabular display or CSV export.
func ClaimsTable(rows []ClaimRow) Table {
	t := Table{
		Headers: []string{"Item", "Location", "Quantity", "Claimed By", "Actor", "Issued At"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ItemName,
			r.Location,
			strconv.Itoa(r.Quantity),
			r.ClaimedBy,
			r.Actor,
			r.IssuedAt.UTC().Format(time.RFC3339),
		})
	}
	return t
}
