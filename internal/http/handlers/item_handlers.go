package handlers

import (
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

func toItemResponse(item models.Item) ItemResponse {
	return ItemResponse{
		Id:        item.ID,
		Name:      item.Name,
		Location:  item.Location,
		Category:  item.Category,
		Quantity:  item.Quantity,
		Threshold: item.Threshold,
		LowStock:  item.LowStock(),
	}
}

// CreateItemHandler godoc
// @Summary Create an item with its initial stock
// @Tags items
// @Accept json
// @Produce json
// @Param item body ItemRequest true "Item to create"
// @Success 201 {object} ItemResponse
// @Failure 400 {array} ItemValidationError
// @Failure 403 {string} string "Permission denied"
// @Failure 409 {string} string "Item exists"
// @Failure 500 {string} string "Internal error"
// @Router /items [post]
// @Security BearerAuth
func CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if errs := validateItem(req); len(errs) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	if _, err := itemRepo.GetByNameAndLocation(req.Name, req.Location); err == nil {
		http.Error(w, "item already exists at this location", http.StatusConflict)
		return
	}

	if !authorizeAction(w, r, authz.ActionAdjust) {
		return
	}

	actor := GetActorFromContext(r)
	ref := inventory.ItemRef{Name: req.Name, Location: req.Location, Category: req.Category}
	item, err := engine.Apply(ref, req.Quantity, models.KindInitial, "initial stock", actor)
	if err != nil {
		log.Printf("could not create item %s at %s: %v", req.Name, req.Location, err)
		http.Error(w, "could not create item", http.StatusInternalServerError)
		return
	}

	if req.Threshold > 0 {
		item.Threshold = req.Threshold
		item.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		if item, err = itemRepo.Update(item); err != nil {
			http.Error(w, "could not set threshold", http.StatusInternalServerError)
			return
		}
	}

	_ = writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// GetItemsHandler godoc
// @Summary List all items
// @Tags items
// @Produce json
// @Success 200 {array} ItemResponse
// @Failure 500 {string} string "Internal error"
// @Router /items [get]
func GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := itemRepo.GetAll()
	if err != nil {
		http.Error(w, "could not retrieve items", http.StatusInternalServerError)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}
	json.NewEncoder(w).Encode(resp)
}

// GetItemHandler godoc
// @Summary Get a single item by ID
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} ItemResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /items/{id} [get]
func GetItemHandler(w http.ResponseWriter, r *http.Request) {
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

	json.NewEncoder(w).Encode(toItemResponse(item))
}

// FilterItemsHandler godoc
// @Summary Search items with filters
// @Tags items
// @Produce json
// @Param name query string false "Name substring"
// @Param location query string false "Location code"
// @Param category query string false "Category substring"
// @Param minQty query int false "Minimum quantity"
// @Param maxQty query int false "Maximum quantity"
// @Param lowStock query bool false "Only items at or below threshold"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ItemsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /items/search [get]
func FilterItemsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repo.ItemFilter{
		Name:     q.Get("name"),
		Location: q.Get("location"),
		Category: q.Get("category"),
		LowStock: q.Get("lowStock") == "true",
	}

	for param, target := range map[string]**int{
		"minQty": &f.MinQty,
		"maxQty": &f.MaxQty,
		"offset": &f.Offset,
		"limit":  &f.Limit,
	} {
		s := q.Get(param)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid "+param+" format", http.StatusBadRequest)
			return
		}
		*target = &v
	}

	if f.Limit != nil && *f.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if f.Offset != nil && *f.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	items, total, err := itemRepo.Filter(f)
	if err != nil {
		log.Printf("could not filter items: %v", err)
		http.Error(w, "could not retrieve items", http.StatusInternalServerError)
		return
	}

	result := ItemsSearchResult{
		Data: make([]ItemResponse, len(items)),
		Meta: Meta{TotalCount: total},
	}
	for i, item := range items {
		result.Data[i] = toItemResponse(item)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// UpdateItemHandler godoc
// @Summary Update item metadata
// @Description Updates name, category and threshold. Quantity is owned by
// @Description the ledger and can only change through adjust or correct.
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body ItemRequest true "Updated fields"
// @Success 200 {object} ItemResponse
// @Failure 400 {array} ItemValidationError
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /items/{id} [put]
// @Security BearerAuth
func UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req ItemRequest
	if err := readJSON(w, r, &req); err != nil {
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

	req.Quantity = item.Quantity
	if errs := validateItem(req); len(errs) > 0 {
		_ = writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	item.Name = req.Name
	item.Location = req.Location
	item.Category = req.Category
	item.Threshold = req.Threshold
	item.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	item, err = itemRepo.Update(item)
	if err != nil {
		http.Error(w, "could not update item", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(toItemResponse(item))
}

// DeleteItemHandler godoc
// @Summary Delete a single location-variant
// @Tags items
// @Param id path int true "Item ID"
// @Success 204 {string} string "Deleted"
// @Failure 400 {string} string "Invalid ID"
// @Failure 403 {string} string "Permission denied"
// @Failure 404 {string} string "Not found"
// @Router /items/{id} [delete]
// @Security BearerAuth
func DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
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

	if !authorizeAction(w, r, authz.ActionDeleteItem) {
		return
	}

	if err := itemRepo.Delete(id); err != nil {
		http.Error(w, "could not delete item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItemsByNameHandler godoc
// @Summary Delete every location-variant of an item name
// @Tags items
// @Produce json
// @Param name query string true "Item name"
// @Success 200 {object} DeletedResult
// @Failure 400 {string} string "Missing name"
// @Failure 403 {string} string "Permission denied"
// @Failure 500 {string} string "Internal error"
// @Router /items [delete]
// @Security BearerAuth
func DeleteItemsByNameHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if !authorizeAction(w, r, authz.ActionDeleteName) {
		return
	}

	deleted, err := itemRepo.DeleteByName(name)
	if err != nil {
		log.Printf("could not delete items named %s: %v", name, err)
		http.Error(w, "could not delete items", http.StatusInternalServerError)
		return
	}

	_ = writeJSON(w, http.StatusOK, DeletedResult{DeletedRows: deleted})
}

// SetThresholdHandler godoc
// @Summary Set the low-stock threshold for every variant of a name
// @Tags items
// @Accept json
// @Produce json
// @Param name path string true "Item name"
// @Param threshold body ThresholdRequest true "New threshold"
// @Success 200 {object} ThresholdResult
// @Failure 400 {string} string "Invalid threshold"
// @Failure 403 {string} string "Permission denied"
// @Failure 404 {string} string "No matching items"
// @Router /thresholds/{name} [put]
// @Security BearerAuth
func SetThresholdHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req ThresholdRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if !authorizeAction(w, r, authz.ActionSetThreshold) {
		return
	}

	updated, err := thresholds.SetThreshold(name, req.Threshold)
	if err != nil {
		if errors.Is(err, inventory.ErrInvalidThreshold) {
			http.Error(w, "threshold cannot be negative", http.StatusBadRequest)
			return
		}
		http.Error(w, "could not update threshold", http.StatusInternalServerError)
		return
	}
	if updated == 0 {
		http.Error(w, "no items with that name", http.StatusNotFound)
		return
	}

	_ = writeJSON(w, http.StatusOK, ThresholdResult{UpdatedRows: updated})
}

// GetLocationsHandler godoc
// @Summary List valid location codes
// @Tags locations
// @Produce json
// @Success 200 {array} string
// @Router /locations [get]
func GetLocationsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(directory.All())
}
