package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/it-asset-tracker/internal/http"
	handler "github.com/rogerio-castellano/it-asset-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
)

func TestAdminCommandHandler_Adjust(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	cmd := inventory.Command{
		Kind: inventory.CommandAdjust,
		Adjust: &inventory.AdjustPayload{
			ItemName: "Mouse",
			Location: "HYD",
			Delta:    10,
			Reason:   "initial stock",
		},
	}

	w := doJSON(r, http.MethodPost, "/admin/commands", cmd)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	item, err := itemRepo.GetByNameAndLocation("Mouse", "HYD")
	if err != nil {
		t.Fatalf("item not created: %v", err)
	}
	if item.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", item.Quantity)
	}
}

func TestAdminCommandHandler_CorrectAndReconcile(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	adjust := inventory.Command{
		Kind:   inventory.CommandAdjust,
		Adjust: &inventory.AdjustPayload{ItemName: "Mouse", Location: "HYD", Delta: 10},
	}
	if w := doJSON(r, http.MethodPost, "/admin/commands", adjust); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	correct := inventory.Command{
		Kind:    inventory.CommandCorrect,
		Correct: &inventory.CorrectPayload{ItemName: "Mouse", Location: "HYD", Quantity: 4, Reason: "stock count"},
	}
	if w := doJSON(r, http.MethodPost, "/admin/commands", correct); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	item, _ := itemRepo.GetByNameAndLocation("Mouse", "HYD")
	if item.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", item.Quantity)
	}

	itemRepo.UpdateQuantity(item.ID, 99)
	reconcile := inventory.Command{
		Kind:      inventory.CommandReconcile,
		Reconcile: &inventory.ReconcilePayload{ItemName: "Mouse", Location: "HYD"},
	}
	if w := doJSON(r, http.MethodPost, "/admin/commands", reconcile); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	item, _ = itemRepo.GetByNameAndLocation("Mouse", "HYD")
	if item.Quantity != 4 {
		t.Errorf("expected quantity restored to 4, got %d", item.Quantity)
	}
}

func TestAdminCommandHandler_MissingPayload(t *testing.T) {
	r := api.NewRouter()

	w := doJSON(r, http.MethodPost, "/admin/commands", inventory.Command{Kind: inventory.CommandAdjust})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", w.Code)
	}
}

func TestAdminCommandHandler_UnknownKind(t *testing.T) {
	r := api.NewRouter()

	w := doJSON(r, http.MethodPost, "/admin/commands", inventory.Command{Kind: "destroy_everything"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unknown kind, got %d", w.Code)
	}
}

func TestAdminCommandHandler_RequiresAdminRole(t *testing.T) {
	t.Cleanup(clearAllItems)
	r := api.NewRouter()

	// A plain user gets a token via /register, which assigns the user role.
	userToken := registerPlainUser(t, r, "plainuser", "longenough")

	cmd := inventory.Command{
		Kind:   inventory.CommandAdjust,
		Adjust: &inventory.AdjustPayload{ItemName: "Mouse", Location: "HYD", Delta: 1},
	}
	body, _ := json.Marshal(cmd)

	w := doJSONWithToken(r, http.MethodPost, "/admin/commands", body, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden, got %d", w.Code)
	}
}

func TestRegisterAsAdminHandler(t *testing.T) {
	r := api.NewRouter()

	w := doJSON(r, http.MethodPost, "/admin/users", handler.RegisterAsAdminRequest{
		Username: "operator",
		Password: "longenough",
		Role:     "admin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
}
