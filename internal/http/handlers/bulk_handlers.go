package handlers

import (
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
)

// BulkUpdateHandler godoc
// @Summary Apply a bulk quantity matrix
// @Description Processes a spreadsheet-shaped batch: quantity rows first,
// @Description then threshold fan-outs, then creation of zero-quantity rows
// @Description for submitted (name, location) pairs that still have no
// @Description variant, so blank-valued rows show up in later views. A bad
// @Description row is reported and skipped, it never aborts the batch.
// @Tags bulk
// @Accept json
// @Produce json
// @Param batch body inventory.Batch true "Rows, mode and thresholds"
// @Success 200 {object} inventory.BulkResult
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Permission denied"
// @Failure 500 {string} string "Internal error"
// @Router /items/bulk [post]
// @Security BearerAuth
func BulkUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var batch inventory.Batch
	if err := readJSON(w, r, &batch); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if batch.Mode != inventory.ModeAdd && batch.Mode != inventory.ModeCorrect {
		http.Error(w, fmt.Sprintf("mode must be %q or %q", inventory.ModeAdd, inventory.ModeCorrect), http.StatusBadRequest)
		return
	}

	if !authorizeAction(w, r, authz.ActionBulkUpdate) {
		return
	}

	result, err := bulk.Process(batch, GetActorFromContext(r))
	if err != nil {
		http.Error(w, "could not process batch", http.StatusInternalServerError)
		return
	}

	_ = writeJSON(w, http.StatusOK, result)
}
