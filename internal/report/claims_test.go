package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
)

func TestClaimsReportFiltersIssueEntries(t *testing.T) {
	f := newFixture()
	mouse := f.addItem(t, "Mouse", "HYD", 7)

	f.addEntry(t, mouse, 10, models.KindInitial, "initial stock", "alice", ts(1, 9))
	f.addEntry(t, mouse, -3, models.KindIssue, "issued to bob", "alice", ts(5, 10))
	f.addEntry(t, mouse, -1, models.KindIssue, "broken in transit", "carol", ts(6, 10))

	rows, err := f.engine.ClaimsReport(AllLocations, ts(1, 0), ts(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Quantity)
	assert.Equal(t, "bob", rows[0].ClaimedBy)
	assert.Equal(t, "alice", rows[0].Actor)

	assert.Equal(t, 1, rows[1].Quantity)
	assert.Equal(t, "-", rows[1].ClaimedBy)
}

func TestClaimsReportLocationAndWindow(t *testing.T) {
	f := newFixture()
	hyd := f.addItem(t, "Mouse", "HYD", 7)
	blr := f.addItem(t, "Mouse", "BLR", 2)

	f.addEntry(t, hyd, -3, models.KindIssue, "issued to bob", "alice", ts(5, 10))
	f.addEntry(t, blr, -2, models.KindIssue, "issued to dan", "alice", ts(5, 11))
	f.addEntry(t, hyd, -1, models.KindIssue, "issued to eve", "alice", ts(8, 10))

	rows, err := f.engine.ClaimsReport("HYD", ts(5, 0), ts(6, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].ClaimedBy)
}

func TestClaimedByExtraction(t *testing.T) {
	cases := []struct {
		reason string
		want   string
	}{
		{"issued to bob", "bob"},
		{"Issued To: Bob Smith", "Bob Smith"},
		{"claimed by carol", "carol"},
		{"claimed by - dave", "dave"},
		{"laptop swap - eve", "eve"},
		{"ticket 4711: frank", "frank"},
		{"broken in transit", "-"},
		{"issued to", "-"},
		{"", "-"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, claimedBy(c.reason), "reason %q", c.reason)
	}
}

func TestClaimsTableShapesRows(t *testing.T) {
	f := newFixture()
	mouse := f.addItem(t, "Mouse", "HYD", 7)
	f.addEntry(t, mouse, -3, models.KindIssue, "issued to bob", "alice", ts(5, 10))

	rows, err := f.engine.ClaimsReport(AllLocations, ts(1, 0), ts(9, 0))
	require.NoError(t, err)

	table := ClaimsTable(rows)
	assert.Equal(t, []string{"Item", "Location", "Quantity", "Claimed By", "Actor", "Issued At"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Mouse", "HYD", "3", "bob", "alice", "2026-08-05T10:00:00Z"}, table.Rows[0])
}
