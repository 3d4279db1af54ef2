package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

func toLedgerEntryResponse(e models.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:        e.ID,
		ItemID:    e.ItemID,
		ItemName:  e.ItemName,
		Location:  e.Location,
		Delta:     e.Delta,
		Kind:      string(e.Kind),
		Reason:    e.Reason,
		Actor:     e.Actor,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// AdjustQuantityHandler godoc
// @Summary Apply a signed quantity change to an item
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param adjustment body QuantityAdjustmentRequest true "Signed change"
// @Success 200 {object} ItemResponse
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 403 {string} string "Permission denied"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quantity would go negative"
// @Failure 500 {string} string "Internal error"
// @Router /items/{id}/adjust [post]
// @Security BearerAuth
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req QuantityAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	item, err := itemRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not retrieve item", http.StatusInternalServerError)
		return
	}

	kind := models.EntryKind(req.Kind)
	switch kind {
	case models.KindInitial, models.KindRestock, models.KindIssue:
	case "":
		kind = models.KindRestock
		if req.Delta < 0 {
			kind = models.KindIssue
		}
	default:
		http.Error(w, "invalid entry kind", http.StatusBadRequest)
		return
	}

	if !authorizeAction(w, r, authz.ActionAdjust) {
		return
	}

	ref := inventory.ItemRef{Name: item.Name, Location: item.Location, Category: item.Category}
	item, err = engine.Apply(ref, req.Delta, kind, req.Reason, GetActorFromContext(r))
	if err != nil {
		if errors.Is(err, repo.ErrInvalidQuantityChange) {
			http.Error(w, "quantity cannot be negative", http.StatusConflict)
			return
		}
		log.Printf("could not adjust item %d: %v", id, err)
		http.Error(w, "could not update quantity", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(toItemResponse(item))
}

// CorrectQuantityHandler godoc
// @Summary Correct an item to an absolute quantity
// @Description Records the signed difference against the current quantity;
// @Description the ledger itself only ever stores deltas.
// @Tags ledger
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param correction body CorrectionRequest true "Desired quantity"
// @Success 200 {object} ItemResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Permission denied"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Desired quantity negative"
// @Router /items/{id}/correct [post]
// @Security BearerAuth
func CorrectQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	item, err := itemRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not retrieve item", http.StatusInternalServerError)
		return
	}

	if !authorizeAction(w, r, authz.ActionCorrect) {
		return
	}

	ref := inventory.ItemRef{Name: item.Name, Location: item.Location}
	item, err = engine.Correct(ref, req.Quantity, req.Reason, GetActorFromContext(r))
	if err != nil {
		if errors.Is(err, repo.ErrInvalidQuantityChange) {
			http.Error(w, "quantity cannot be negative", http.StatusConflict)
			return
		}
		log.Printf("could not correct item %d: %v", id, err)
		http.Error(w, "could not correct quantity", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(toItemResponse(item))
}

// ReconcileHandler godoc
// @Summary Restore an item's cached quantity from its ledger sum
// @Tags ledger
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 403 {string} string "Permission denied"
// @Failure 404 {string} string "Not found"
// @Router /items/{id}/reconcile [post]
// @Security BearerAuth
func ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := itemRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not retrieve item", http.StatusInternalServerError)
		return
	}

	if !authorizeAction(w, r, authz.ActionReconcile) {
		return
	}

	ref := inventory.ItemRef{Name: item.Name, Location: item.Location}
	item, err = engine.Reconcile(ref)
	if err != nil {
		http.Error(w, "could not reconcile item", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(toItemResponse(item))
}

func parseLedgerFilter(w http.ResponseWriter, r *http.Request) (repo.LedgerFilter, bool) {
	var f repo.LedgerFilter
	q := r.URL.Query()

	sinceStr := fixRFC3339Offset(q.Get("since"))
	untilStr := fixRFC3339Offset(q.Get("until"))

	if sinceStr != "" {
		ts, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			log.Printf("could not parse since date %s: %v", sinceStr, err)
			http.Error(w, "invalid since date format", http.StatusBadRequest)
			return f, false
		}
		f.Since = &ts
	}
	if untilStr != "" {
		ts, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			log.Printf("could not parse until date %s: %v", untilStr, err)
			http.Error(w, "invalid until date format", http.StatusBadRequest)
			return f, false
		}
		f.Until = &ts
	}

	if kind := q.Get("kind"); kind != "" {
		f.Kind = models.EntryKind(kind)
	}
	f.Location = q.Get("location")

	if limitStr := q.Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid limit format", http.StatusBadRequest)
			return f, false
		}
		if v <= 0 {
			http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
			return f, false
		}
		f.Limit = &v
	}

	if offsetStr := q.Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid offset format", http.StatusBadRequest)
			return f, false
		}
		if v < 0 {
			http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
			return f, false
		}
		f.Offset = &v
	}

	return f, true
}

// GetItemLedgerHandler godoc
// @Summary Get the ledger entries of one item
// @Tags ledger
// @Produce json
// @Param id path int true "Item ID"
// @Param since query string false "Filter entries from this timestamp (RFC3339)"
// @Param until query string false "Filter entries until this timestamp (RFC3339)"
// @Param kind query string false "Filter by entry kind (INITIAL, RESTOCK, ISSUE)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} LedgerSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Item not found"
// @Failure 500 {string} string "Internal error"
// @Router /items/{id}/ledger [get]
func GetItemLedgerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	if _, err := itemRepo.GetByID(id); err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not retrieve item", http.StatusInternalServerError)
		return
	}

	f, ok := parseLedgerFilter(w, r)
	if !ok {
		return
	}

	entries, total, err := ledgerRepo.GetByItemID(id, f)
	if err != nil {
		log.Printf("could not retrieve ledger for item %d: %v", id, err)
		http.Error(w, "could not retrieve ledger entries", http.StatusInternalServerError)
		return
	}

	result := LedgerSearchResult{
		Data: make([]LedgerEntryResponse, len(entries)),
		Meta: Meta{TotalCount: total},
	}
	for i, e := range entries {
		result.Data[i] = toLedgerEntryResponse(e)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetLedgerHandler godoc
// @Summary List ledger entries across all items
// @Tags ledger
// @Produce json
// @Param since query string false "Filter entries from this timestamp (RFC3339)"
// @Param until query string false "Filter entries until this timestamp (RFC3339)"
// @Param kind query string false "Filter by entry kind (INITIAL, RESTOCK, ISSUE)"
// @Param location query string false "Filter by location code"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} LedgerEntryResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /ledger [get]
func GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	f, ok := parseLedgerFilter(w, r)
	if !ok {
		return
	}

	entries, err := ledgerRepo.GetAll(f)
	if err != nil {
		log.Printf("could not retrieve ledger: %v", err)
		http.Error(w, "could not retrieve ledger entries", http.StatusInternalServerError)
		return
	}

	resp := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toLedgerEntryResponse(e)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ExportLedgerHandler godoc
// @Summary Export ledger entries
// @Tags ledger
// @Produce text/csv, application/json
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Param location query string false "Filter by location code"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /ledger/export [get]
func ExportLedgerHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	f, ok := parseLedgerFilter(w, r)
	if !ok {
		return
	}

	entries, err := ledgerRepo.GetAll(f)
	if err != nil {
		http.Error(w, "could not retrieve ledger entries", http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="ledger.json"`)
		resp := make([]LedgerEntryResponse, len(entries))
		for i, e := range entries {
			resp[i] = toLedgerEntryResponse(e)
		}
		json.NewEncoder(w).Encode(resp)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "item_id", "item_name", "location", "delta", "kind", "reason", "actor", "created_at"})
		for _, e := range entries {
			_ = csvWriter.Write([]string{
				strconv.Itoa(e.ID),
				strconv.Itoa(e.ItemID),
				e.ItemName,
				e.Location,
				strconv.Itoa(e.Delta),
				string(e.Kind),
				e.Reason,
				e.Actor,
				e.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
