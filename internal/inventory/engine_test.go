package inventory

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

func newTestEngine() (*Engine, *repo.InMemoryItemRepository, *repo.InMemoryLedgerRepository) {
	items := repo.NewInMemoryItemRepository()
	ledger := repo.NewInMemoryLedgerRepository()
	return NewEngine(items, ledger, zerolog.Nop()), items, ledger
}

func TestApplyCreatesItemOnFirstMutation(t *testing.T) {
	engine, items, _ := newTestEngine()

	ref := ItemRef{Name: "Mouse", Location: "HYD", Category: "Peripherals"}
	item, err := engine.Apply(ref, 10, models.KindInitial, "initial stock", "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, "Peripherals", item.Category)

	stored, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	assert.Equal(t, item.ID, stored.ID)
}

func TestApplyRejectsNegativeResult(t *testing.T) {
	engine, items, ledger := newTestEngine()

	ref := ItemRef{Name: "Mouse", Location: "HYD"}
	_, err := engine.Apply(ref, 5, models.KindInitial, "", "alice")
	require.NoError(t, err)

	_, err = engine.Apply(ref, -6, models.KindIssue, "issued to bob", "alice")
	assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)

	// Neither store was touched by the refused change.
	item, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	sum, err := ledger.SumByItemID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, sum)
}

func TestCacheEqualsLedgerSumAfterMutations(t *testing.T) {
	engine, items, ledger := newTestEngine()

	ref := ItemRef{Name: "Keyboard", Location: "BLR"}
	_, err := engine.Apply(ref, 12, models.KindInitial, "", "alice")
	require.NoError(t, err)
	_, err = engine.Apply(ref, -4, models.KindIssue, "issued to bob", "alice")
	require.NoError(t, err)
	_, err = engine.Apply(ref, 7, models.KindRestock, "", "carol")
	require.NoError(t, err)

	item, err := items.GetByNameAndLocation("Keyboard", "BLR")
	require.NoError(t, err)

	sum, err := ledger.SumByItemID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Quantity, sum)
	assert.Equal(t, 15, item.Quantity)
}

// The worked sequence: start 10, issue 3, correct to 5, restock 8,
// correct to 20 ends at quantity 20 with ledger deltas
// +10, -3, -2, +8, +7.
func TestWorkedAdjustmentSequence(t *testing.T) {
	engine, items, ledger := newTestEngine()

	ref := ItemRef{Name: "Mouse", Location: "HYD"}

	_, err := engine.Apply(ref, 10, models.KindInitial, "initial stock", "alice")
	require.NoError(t, err)
	_, err = engine.Apply(ref, -3, models.KindIssue, "issued to bob", "alice")
	require.NoError(t, err)
	_, err = engine.Correct(ref, 5, "stock count", "alice")
	require.NoError(t, err)
	_, err = engine.Apply(ref, 8, models.KindRestock, "", "alice")
	require.NoError(t, err)
	item, err := engine.Correct(ref, 20, "stock count", "alice")
	require.NoError(t, err)

	assert.Equal(t, 20, item.Quantity)

	entries, err := ledger.GetAll(repo.LedgerFilter{})
	require.NoError(t, err)
	deltas := make([]int, len(entries))
	for i, e := range entries {
		deltas[i] = e.Delta
	}
	assert.Equal(t, []int{10, -3, -2, 8, 7}, deltas)

	stored, err := items.GetByNameAndLocation("Mouse", "HYD")
	require.NoError(t, err)
	sum, err := ledger.SumByItemID(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Quantity, sum)
}

func TestCorrectRejectsNegativeDesiredQuantity(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Correct(ItemRef{Name: "Mouse", Location: "HYD"}, -1, "", "alice")
	assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)
}

func TestCorrectZeroDeltaSkipsLedgerWrite(t *testing.T) {
	engine, _, ledger := newTestEngine()

	ref := ItemRef{Name: "Mouse", Location: "HYD"}
	_, err := engine.Apply(ref, 10, models.KindInitial, "", "alice")
	require.NoError(t, err)

	item, err := engine.Correct(ref, 10, "stock count", "alice")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)

	entries, err := ledger.GetAll(repo.LedgerFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCorrectOnMissingItemRecordsInitial(t *testing.T) {
	engine, _, ledger := newTestEngine()

	item, err := engine.Correct(ItemRef{Name: "Cable", Location: "CHN"}, 4, "", "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	entries, _, err := ledger.GetByItemID(item.ID, repo.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.KindInitial, entries[0].Kind)
	assert.Equal(t, 4, entries[0].Delta)
}

func TestCorrectKindFollowsDeltaSign(t *testing.T) {
	engine, _, ledger := newTestEngine()

	ref := ItemRef{Name: "Mouse", Location: "HYD"}
	_, err := engine.Apply(ref, 10, models.KindInitial, "", "alice")
	require.NoError(t, err)

	_, err = engine.Correct(ref, 6, "", "alice")
	require.NoError(t, err)
	_, err = engine.Correct(ref, 9, "", "alice")
	require.NoError(t, err)

	entries, err := ledger.GetAll(repo.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.KindIssue, entries[1].Kind)
	assert.Equal(t, models.KindRestock, entries[2].Kind)
}

func TestReconcileRestoresCacheFromLedger(t *testing.T) {
	engine, items, ledger := newTestEngine()

	ref := ItemRef{Name: "Monitor", Location: "HYD"}
	created, err := engine.Apply(ref, 9, models.KindInitial, "", "alice")
	require.NoError(t, err)

	// Force a divergence the way a crash between the two writes would.
	_, err = items.UpdateQuantity(created.ID, 3)
	require.NoError(t, err)

	item, err := engine.Reconcile(ref)
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)

	sum, err := ledger.SumByItemID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, item.Quantity)
}

func TestReconcileMissingItem(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Reconcile(ItemRef{Name: "Ghost", Location: "HYD"})
	assert.ErrorIs(t, err, repo.ErrItemNotFound)
}

// Two goroutines racing to issue from the same item must serialize: with
// stock for only one of them, exactly one succeeds.
func TestConcurrentIssuesSerialize(t *testing.T) {
	engine, items, ledger := newTestEngine()

	ref := ItemRef{Name: "Dock", Location: "BLR"}
	_, err := engine.Apply(ref, 1, models.KindInitial, "", "alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = engine.Apply(ref, -1, models.KindIssue, "issued to bob", "alice")
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, repo.ErrInvalidQuantityChange)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	item, err := items.GetByNameAndLocation("Dock", "BLR")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)

	sum, err := ledger.SumByItemID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum)
}
