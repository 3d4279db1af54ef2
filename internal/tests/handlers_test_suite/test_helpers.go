package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/it-asset-tracker/internal/auth"
	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	api "github.com/rogerio-castellano/it-asset-tracker/internal/http"
	handler "github.com/rogerio-castellano/it-asset-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
	"github.com/rogerio-castellano/it-asset-tracker/internal/locations"
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
	"github.com/rogerio-castellano/it-asset-tracker/internal/report"
)

const actionSecret = "letmein"

var (
	token      string
	itemRepo   *repo.InMemoryItemRepository
	ledgerRepo *repo.InMemoryLedgerRepository
)

func init() {
	setupTestDependencies("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestDependencies(password string) {
	itemRepo = repo.NewInMemoryItemRepository()
	handler.SetItemRepo(itemRepo)

	ledgerRepo = repo.NewInMemoryLedgerRepository()
	handler.SetLedgerRepo(ledgerRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	metricsRepo := repo.NewInMemoryMetricsRepository()
	handler.SetMetricsRepo(metricsRepo)
	metricsRepo.SetRepositories(itemRepo, ledgerRepo)

	directory := locations.NewStaticDirectory([]string{"HYD", "BLR", "CHN"})
	handler.SetLocationDirectory(directory)

	engine := inventory.NewEngine(itemRepo, ledgerRepo, zerolog.Nop())
	thresholds := inventory.NewThresholdManager(itemRepo, zerolog.Nop())
	bulk := inventory.NewBulkProcessor(engine, thresholds, itemRepo, directory, zerolog.Nop())

	handler.SetEngine(engine)
	handler.SetThresholdManager(thresholds)
	handler.SetBulkProcessor(bulk)
	handler.SetDispatcher(inventory.NewDispatcher(engine, thresholds, bulk, itemRepo))
	handler.SetReportEngine(report.NewEngine(itemRepo, ledgerRepo))

	secretHash, _ := bcrypt.GenerateFromPassword([]byte(actionSecret), bcrypt.MinCost)
	handler.SetGate(authz.NewSecretGate(string(secretHash), authz.NewInMemoryStrikeStore(), 1000, time.Minute, zerolog.Nop()))
	handler.SetRefreshStore(auth.NewInMemoryRefreshStore(time.Hour))
}

func clearAllItems() {
	itemRepo.Clear()
	ledgerRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// doJSON sends an authenticated request carrying the gate secret.
func doJSON(r http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Action-Secret", actionSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSONWithToken(r http.Handler, method, target string, body []byte, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("X-Action-Secret", actionSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerPlainUser(t testingT, r http.Handler, username, password string) string {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Token == "" {
		t.Fatalf("user registration failed: %v (status %d)", err, w.Code)
	}
	return resp.Token
}

// testingT is the subset of *testing.T the helpers use; helpers live in a
// non-test file so the suites across files can share them.
type testingT interface {
	Fatalf(format string, args ...any)
}

func createItem(r http.Handler, item handler.ItemRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/items", item)
}

func adjustItem(r http.Handler, itemID int, adj handler.QuantityAdjustmentRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/items/%d/adjust", itemID), adj)
}

func correctItem(r http.Handler, itemID int, corr handler.CorrectionRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/items/%d/correct", itemID), corr)
}
