package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// AdminCommandHandler godoc
// @Summary Execute an administrative inventory command
// @Description Accepts one tagged command (adjust, correct, set_threshold,
// @Description reconcile, delete_item, delete_name, bulk_update) and routes
// @Description it through the same engine the dedicated endpoints use.
// @Tags admin
// @Accept json
// @Produce json
// @Param command body inventory.Command true "Command with its payload"
// @Success 200 {object} map[string]any
// @Failure 400 {string} string "Invalid command"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quantity would go negative"
// @Failure 500 {string} string "Internal error"
// @Router /admin/commands [post]
// @Security BearerAuth
func AdminCommandHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var cmd inventory.Command
	if err := readJSON(w, r, &cmd); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if !authorizeAction(w, r, authz.Action(inventory.GateAction(cmd.Kind))) {
		return
	}

	result, err := dispatcher.Dispatch(cmd, GetActorFromContext(r))
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrMissingPayload):
			http.Error(w, "missing command payload", http.StatusBadRequest)
		case errors.Is(err, inventory.ErrInvalidThreshold):
			http.Error(w, "threshold cannot be negative", http.StatusBadRequest)
		case errors.Is(err, repo.ErrInvalidQuantityChange):
			http.Error(w, "quantity cannot be negative", http.StatusConflict)
		case errors.Is(err, repo.ErrItemNotFound):
			http.Error(w, "item not found", http.StatusNotFound)
		default:
			log.Printf("command %s failed: %v", cmd.Kind, err)
			http.Error(w, "could not execute command", http.StatusInternalServerError)
		}
		return
	}

	if result == nil {
		result = map[string]string{"message": "command executed"}
	}
	_ = writeJSON(w, http.StatusOK, result)
}
