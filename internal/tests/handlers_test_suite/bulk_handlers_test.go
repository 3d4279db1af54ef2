package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/it-asset-tracker/internal/http"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
)

func TestBulkUpdateHandler(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	batch := inventory.Batch{
		Mode: inventory.ModeAdd,
		Rows: []inventory.Row{
			{ItemName: "Mouse", Location: "HYD", RawValue: "10"},
			{ItemName: "Keyboard", Location: "BLR", RawValue: "x"},
			{ItemName: "", Location: "HYD", RawValue: "5"},
		},
		Thresholds: map[string]int{"Mouse": 4, "Keyboard": 2},
	}

	w := doJSON(r, http.MethodPost, "/items/bulk", batch)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var res inventory.BulkResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if res.Applied != 1 {
		t.Errorf("expected 1 applied row, got %d", res.Applied)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Errorf("expected one error for row 3, got %+v", res.Errors)
	}

	mouse, err := itemRepo.GetByNameAndLocation("Mouse", "HYD")
	if err != nil {
		t.Fatalf("mouse not created: %v", err)
	}
	if mouse.Quantity != 10 || mouse.Threshold != 4 {
		t.Errorf("expected quantity 10 threshold 4, got %d/%d", mouse.Quantity, mouse.Threshold)
	}

	// The non-numeric keyboard row was skipped in the quantity phase but
	// still force-created with zero stock and the batch threshold.
	keyboard, err := itemRepo.GetByNameAndLocation("Keyboard", "BLR")
	if err != nil {
		t.Fatalf("keyboard not created: %v", err)
	}
	if keyboard.Quantity != 0 || keyboard.Threshold != 2 {
		t.Errorf("expected quantity 0 threshold 2, got %d/%d", keyboard.Quantity, keyboard.Threshold)
	}
}

func TestBulkUpdateHandler_RejectsUnknownMode(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	w := doJSON(r, http.MethodPost, "/items/bulk", inventory.Batch{Mode: "REPLACE"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestBulkUpdateHandler_CorrectMode(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	first := inventory.Batch{
		Mode: inventory.ModeAdd,
		Rows: []inventory.Row{{ItemName: "Mouse", Location: "HYD", RawValue: "10"}},
	}
	if w := doJSON(r, http.MethodPost, "/items/bulk", first); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	second := inventory.Batch{
		Mode: inventory.ModeCorrect,
		Rows: []inventory.Row{{ItemName: "Mouse", Location: "HYD", RawValue: "6"}},
	}
	if w := doJSON(r, http.MethodPost, "/items/bulk", second); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	mouse, _ := itemRepo.GetByNameAndLocation("Mouse", "HYD")
	if mouse.Quantity != 6 {
		t.Errorf("expected quantity 6, got %d", mouse.Quantity)
	}
	sum, _ := ledgerRepo.SumByItemID(mouse.ID)
	if sum != 6 {
		t.Errorf("expected ledger sum 6, got %d", sum)
	}
}
