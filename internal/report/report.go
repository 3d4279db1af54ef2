// Package report replays ledger history over a time window to compute
// opening/closing stock and consumption reports. Report generation is a
// pure function of the item snapshot, the full ledger and the window; it
// never mutates either store.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// AllLocations aggregates every location-variant of an item name into a
// single report row.
const AllLocations = "All"

type Engine struct {
	items  repo.ItemRepository
	ledger repo.LedgerRepository
}

func NewEngine(items repo.ItemRepository, ledger repo.LedgerRepository) *Engine {
	return &Engine{items: items, ledger: ledger}
}

type StockRow struct {
	ItemName   string `json:"item_name"`
	Location   string `json:"location"`
	Opening    int    `json:"opening"`
	Added      int    `json:"added"`
	Consumed   int    `json:"consumed"`
	Closing    int    `json:"closing"`
	LastAction string `json:"last_action"`
}

// Table is the presentation-boundary shape: an ordered header plus rows,
// suitable for tabular display or delimited-text export.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// StockReport computes opening/added/consumed/closing per item over
// [start, end], both bounds inclusive. Entries before start form the
// opening balance. For AllLocations, every variant of a name is
// aggregated; entries are matched by variant ID first, falling back to
// name-only matching when that yields nothing.
func (e *Engine) StockReport(location string, start, end time.Time) ([]StockRow, error) {
	items, err := e.items.GetAll()
	if err != nil {
		return nil, err
	}
	entries, err := e.ledger.GetAll(repo.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	var rows []StockRow

	if location != AllLocations {
		for _, item := range items {
			if item.Location != location {
				continue
			}
			var sel []models.LedgerEntry
			for _, en := range entries {
				if en.ItemID == item.ID {
					sel = append(sel, en)
				}
			}
			rows = append(rows, computeStockRow(item.Name, item.Location, sel, start, end))
		}
	} else {
		byName := groupVariantsByName(items)
		for _, group := range byName {
			ids := map[int]bool{}
			for _, item := range group.items {
				ids[item.ID] = true
			}
			var sel []models.LedgerEntry
			for _, en := range entries {
				if ids[en.ItemID] {
					sel = append(sel, en)
				}
			}
			if len(sel) == 0 {
				for _, en := range entries {
					if strings.EqualFold(en.ItemName, group.name) {
						sel = append(sel, en)
					}
				}
			}
			rows = append(rows, computeStockRow(group.name, AllLocations, sel, start, end))
		}
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].ItemName != rows[b].ItemName {
			return rows[a].ItemName < rows[b].ItemName
		}
		return rows[a].Location < rows[b].Location
	})
	return rows, nil
}

type nameGroup struct {
	name  string
	items []models.Item
}

func groupVariantsByName(items []models.Item) []nameGroup {
	var groups []nameGroup
	index := map[string]int{}
	for _, item := range items {
		key := strings.ToLower(item.Name)
		if at, ok := index[key]; ok {
			groups[at].items = append(groups[at].items, item)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, nameGroup{name: item.Name, items: []models.Item{item}})
	}
	return groups
}

func computeStockRow(name, location string, entries []models.LedgerEntry, start, end time.Time) StockRow {
	row := StockRow{ItemName: name, Location: location, LastAction: "-"}

	var last *models.LedgerEntry
	for i, en := range entries {
		switch {
		case en.CreatedAt.Before(start):
			row.Opening += en.Delta
		case !en.CreatedAt.After(end):
			if en.Delta > 0 {
				row.Added += en.Delta
			} else if en.Delta < 0 {
				row.Consumed += -en.Delta
			}
			if last == nil || !en.CreatedAt.Before(last.CreatedAt) {
				last = &entries[i]
			}
		}
	}

	row.Closing = row.Opening + row.Added - row.Consumed
	if last != nil {
		row.LastAction = fmt.Sprintf("%s @ %s", last.Actor, last.CreatedAt.UTC().Format(time.RFC3339))
	}
	return row
}

// StockTable renders stock rows for tabular display or CSV export.
func StockTable(rows []StockRow) Table {
	t := Table{
		Headers: []string{"Item", "Location", "Opening", "Added", "Consumed", "Closing", "Last Action"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ItemName,
			r.Location,
			strconv.Itoa(r.Opening),
			strconv.Itoa(r.Added),
			strconv.Itoa(r.Consumed),
			strconv.Itoa(r.Closing),
			r.LastAction,
		})
	}
	return t
}
