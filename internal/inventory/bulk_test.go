package inventory

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/it-asset-tracker/internal/locations"
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

func newTestBulkProcessor() (*BulkProcessor, *repo.InMemoryItemRepository, *repo.InMemoryLedgerRepository) {
	items := repo.NewInMemoryItemRepository()
	ledger := repo.NewInMemoryLedgerRepository()
	engine := NewEngine(items, ledger, zerolog.Nop())
	thresholds := NewThresholdManager(items, zerolog.Nop())
	directory := locations.NewStaticDirectory([]string{"HYD", "BLR", "CHN"})
	return NewBulkProcessor(engine, thresholds, items, directory, zerolog.Nop()), items, ledger
}

func TestBulkRejectsUnknownMode(t *testing.T) {
	p, _, _ := newTestBulkProcessor()

	_, err := p.Process(Batch{Mode: "REPLACE"}, "alice")
	assert.Error(t, err)
}

func TestBulkAddAppliesRowsInOrder(t *testing.T) {
	p, items, _ := newTestBulkProcessor()

	res, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{
			{ItemName: "Mouse", Location: "HYD", RawValue: "10"},
			{ItemName: "Mouse", Location: "HYD", RawValue: "-3"},
			{ItemName: "Keyboard", Location: "BLR", RawValue: "5"},
		},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Applied)
	assert.Empty(t, res.Errors)

	mouse, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 7, mouse.Quantity)
}

func TestBulkCorrectComputesDeltas(t *testing.T) {
	p, items, ledger := newTestBulkProcessor()

	_, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{{ItemName: "Mouse", Location: "HYD", RawValue: "10"}},
	}, "alice")
	require.NoError(t, err)

	res, err := p.Process(Batch{
		Mode: ModeCorrect,
		Rows: []Row{{ItemName: "Mouse", Location: "HYD", RawValue: "4"}},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)

	mouse, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 4, mouse.Quantity)

	entries, _, err := ledger.GetByItemID(mouse.ID, repo.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -6, entries[1].Delta)
	assert.Equal(t, models.KindIssue, entries[1].Kind)
}

// Correcting to a valid non-negative target must never fail, no matter
// how many batches carry the same correction concurrently: the engine
// serializes the read and the write, so the first batch lands the delta
// and the rest see a zero delta and skip.
func TestBulkCorrectConcurrentBatchesSerialize(t *testing.T) {
	p, items, ledger := newTestBulkProcessor()

	_, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{{ItemName: "Mouse", Location: "HYD", RawValue: "10"}},
	}, "alice")
	require.NoError(t, err)

	const batches = 8
	results := make([]BulkResult, batches)
	errs := make([]error, batches)
	var wg sync.WaitGroup
	wg.Add(batches)
	for i := 0; i < batches; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i], errs[i] = p.Process(Batch{
				Mode: ModeCorrect,
				Rows: []Row{{ItemName: "Mouse", Location: "HYD", RawValue: "4"}},
			}, "alice")
		}()
	}
	wg.Wait()

	applied := 0
	for i, res := range results {
		require.NoError(t, errs[i])
		assert.Empty(t, res.Errors)
		applied += res.Applied
	}
	assert.Equal(t, 1, applied)

	mouse, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 4, mouse.Quantity)

	sum, err := ledger.SumByItemID(mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sum)
}

func TestBulkSkipsBlankAndNonNumericValues(t *testing.T) {
	p, _, ledger := newTestBulkProcessor()

	res, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{
			{ItemName: "Mouse", Location: "HYD", RawValue: ""},
			{ItemName: "Mouse", Location: "HYD", RawValue: "n/a"},
			{ItemName: "Mouse", Location: "HYD", RawValue: "2"},
		},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Errors)

	entries, err := ledger.GetAll(repo.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBulkRowFailuresAreIsolated(t *testing.T) {
	p, items, _ := newTestBulkProcessor()

	res, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{
			{ItemName: "", Location: "HYD", RawValue: "5"},
			{ItemName: "Mouse", Location: "Mars", RawValue: "5"},
			{ItemName: "Mouse", Location: "HYD", RawValue: "-5"},
			{ItemName: "Keyboard", Location: "HYD", RawValue: "3"},
		},
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 1, res.Errors[0].Row)
	assert.Equal(t, 2, res.Errors[1].Row)
	assert.Equal(t, 3, res.Errors[2].Row) // would drive a new item negative

	keyboard, err := items.GetByNameAndLocation("Keyboard", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 3, keyboard.Quantity)
}

// Thresholds must land after the quantity phase so they cover variants
// the same batch created, and names untouched by any quantity row still
// get a zero-quantity row carrying the threshold.
func TestBulkPhaseOrdering(t *testing.T) {
	p, items, ledger := newTestBulkProcessor()

	res, err := p.Process(Batch{
		Mode: ModeAdd,
		Rows: []Row{
			{ItemName: "Headset", Location: "HYD", RawValue: "6"},
			{ItemName: "Webcam", Location: "BLR", RawValue: ""},
		},
		Thresholds: map[string]int{
			"Headset": 2,
			"Webcam":  4,
		},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Empty(t, res.Errors)

	headset, err := items.GetByNameAndLocation("Headset", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 6, headset.Quantity)
	assert.Equal(t, 2, headset.Threshold)

	// The webcam row had no usable value, so phase 3 created it with
	// zero stock and the batch threshold applied.
	webcam, err := items.GetByNameAndLocation("Webcam", "BLR")
	require.NoError(t, err)
	assert.Equal(t, 0, webcam.Quantity)
	assert.Equal(t, 4, webcam.Threshold)

	entries, _, err := ledger.GetByItemID(webcam.ID, repo.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Delta)
	assert.Equal(t, models.KindInitial, entries[0].Kind)
}

func TestBulkThresholdErrorsReported(t *testing.T) {
	p, _, _ := newTestBulkProcessor()

	res, err := p.Process(Batch{
		Mode:       ModeAdd,
		Thresholds: map[string]int{"Mouse": -1},
	}, "alice")
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "threshold")
}
