package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

type fixture struct {
	engine *Engine
	items  *repo.InMemoryItemRepository
	ledger *repo.InMemoryLedgerRepository
}

func newFixture() fixture {
	items := repo.NewInMemoryItemRepository()
	ledger := repo.NewInMemoryLedgerRepository()
	return fixture{
		engine: NewEngine(items, ledger),
		items:  items,
		ledger: ledger,
	}
}

func (f fixture) addItem(t *testing.T, name, location string, quantity int) models.Item {
	t.Helper()
	item, err := f.items.Create(models.Item{Name: name, Location: location, Quantity: quantity})
	require.NoError(t, err)
	return item
}

func (f fixture) addEntry(t *testing.T, item models.Item, delta int, kind models.EntryKind, reason, actor string, at time.Time) {
	t.Helper()
	_, err := f.ledger.Append(models.LedgerEntry{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Location:  item.Location,
		Delta:     delta,
		Kind:      kind,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: at,
	})
	require.NoError(t, err)
}

func ts(day, hour int) time.Time {
	return time.Date(2026, 8, day, hour, 0, 0, 0, time.UTC)
}

func TestStockReportSingleLocation(t *testing.T) {
	f := newFixture()
	mouse := f.addItem(t, "Mouse", "HYD", 15)

	f.addEntry(t, mouse, 10, models.KindInitial, "initial stock", "alice", ts(1, 9))
	f.addEntry(t, mouse, -3, models.KindIssue, "issued to bob", "alice", ts(5, 10))
	f.addEntry(t, mouse, 8, models.KindRestock, "", "carol", ts(6, 11))

	rows, err := f.engine.StockReport("HYD", ts(5, 0), ts(7, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Mouse", row.ItemName)
	assert.Equal(t, 10, row.Opening)
	assert.Equal(t, 8, row.Added)
	assert.Equal(t, 3, row.Consumed)
	assert.Equal(t, 15, row.Closing)
	assert.Equal(t, row.Opening+row.Added-row.Consumed, row.Closing)
	assert.Equal(t, "carol @ "+ts(6, 11).Format(time.RFC3339), row.LastAction)
}

// An entry on the boundary belongs to the window on both sides being
// inclusive: closing of [a,b] equals opening plus net of (b, c] only when
// the entry at b is counted inside the first window.
func TestStockReportWindowBoundsInclusive(t *testing.T) {
	f := newFixture()
	mouse := f.addItem(t, "Mouse", "HYD", 7)

	f.addEntry(t, mouse, 10, models.KindInitial, "", "alice", ts(1, 9))
	f.addEntry(t, mouse, -3, models.KindIssue, "issued to bob", "alice", ts(5, 0))

	rows, err := f.engine.StockReport("HYD", ts(1, 0), ts(5, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Consumed)
	assert.Equal(t, 7, rows[0].Closing)

	// The next window opens with the previous closing balance.
	next, err := f.engine.StockReport("HYD", ts(5, 1), ts(9, 0))
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, rows[0].Closing, next[0].Opening)
}

func TestStockReportAllAggregatesVariantsByName(t *testing.T) {
	f := newFixture()
	hyd := f.addItem(t, "Mouse", "HYD", 7)
	blr := f.addItem(t, "Mouse", "BLR", 4)
	f.addItem(t, "Keyboard", "HYD", 2)

	f.addEntry(t, hyd, 10, models.KindInitial, "", "alice", ts(1, 9))
	f.addEntry(t, hyd, -3, models.KindIssue, "issued to bob", "alice", ts(5, 10))
	f.addEntry(t, blr, 4, models.KindInitial, "", "carol", ts(5, 12))

	rows, err := f.engine.StockReport(AllLocations, ts(4, 0), ts(6, 0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by name: Keyboard, then the aggregated Mouse row.
	assert.Equal(t, "Keyboard", rows[0].ItemName)

	mouse := rows[1]
	assert.Equal(t, "Mouse", mouse.ItemName)
	assert.Equal(t, AllLocations, mouse.Location)
	assert.Equal(t, 10, mouse.Opening)
	assert.Equal(t, 4, mouse.Added)
	assert.Equal(t, 3, mouse.Consumed)
	assert.Equal(t, 11, mouse.Closing)

	// The aggregated row is exactly the sum of the per-location rows for
	// the same name and window.
	var sum StockRow
	for _, location := range []string{"HYD", "BLR"} {
		perLoc, err := f.engine.StockReport(location, ts(4, 0), ts(6, 0))
		require.NoError(t, err)
		for _, row := range perLoc {
			if row.ItemName != "Mouse" {
				continue
			}
			sum.Opening += row.Opening
			sum.Added += row.Added
			sum.Consumed += row.Consumed
			sum.Closing += row.Closing
		}
	}
	assert.Equal(t, sum.Opening, mouse.Opening)
	assert.Equal(t, sum.Added, mouse.Added)
	assert.Equal(t, sum.Consumed, mouse.Consumed)
	assert.Equal(t, sum.Closing, mouse.Closing)
}

// Entries whose variant row was deleted and recreated no longer match by
// ID; the aggregated view falls back to matching on the item name.
func TestStockReportAllFallsBackToNameMatch(t *testing.T) {
	f := newFixture()
	mouse := f.addItem(t, "Mouse", "HYD", 5)

	orphan := models.Item{ID: 999, Name: "Mouse", Location: "BLR"}
	f.addEntry(t, orphan, 5, models.KindInitial, "", "alice", ts(2, 9))

	rows, err := f.engine.StockReport(AllLocations, ts(1, 0), ts(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Added)

	// With a direct ID match present, orphaned entries are ignored.
	f.addEntry(t, mouse, 5, models.KindInitial, "", "alice", ts(3, 9))
	rows, err = f.engine.StockReport(AllLocations, ts(1, 0), ts(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Added)
}

func TestStockReportNoEntries(t *testing.T) {
	f := newFixture()
	f.addItem(t, "Mouse", "HYD", 0)

	rows, err := f.engine.StockReport("HYD", ts(1, 0), ts(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Closing)
	assert.Equal(t, "-", rows[0].LastAction)
}

func TestStockTableShapesRows(t *testing.T) {
	table := StockTable([]StockRow{{
		ItemName: "Mouse", Location: "HYD",
		Opening: 10, Added: 8, Consumed: 3, Closing: 15,
		LastAction: "carol @ 2026-08-06T11:00:00Z",
	}})

	assert.Equal(t, []string{"Item", "Location", "Opening", "Added", "Consumed", "Closing", "Last Action"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Mouse", "HYD", "10", "8", "3", "15", "carol @ 2026-08-06T11:00:00Z"}, table.Rows[0])
}
