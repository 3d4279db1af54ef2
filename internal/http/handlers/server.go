package handlers

import (
	"github.com/rogerio-castellano/it-asset-tracker/internal/auth"
	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
	"github.com/rogerio-castellano/it-asset-tracker/internal/locations"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
	"github.com/rogerio-castellano/it-asset-tracker/internal/report"
)

var (
	itemRepo    repo.ItemRepository
	ledgerRepo  repo.LedgerRepository
	userRepo    repo.UserRepository
	metricsRepo repo.MetricsRepository

	engine     *inventory.Engine
	thresholds *inventory.ThresholdManager
	bulk       *inventory.BulkProcessor
	dispatcher *inventory.Dispatcher
	reports    *report.Engine

	gate         authz.Gate
	directory    locations.Directory
	refreshStore auth.RefreshTokenStore
)

func SetItemRepo(r repo.ItemRepository) {
	itemRepo = r
}

func SetLedgerRepo(r repo.LedgerRepository) {
	ledgerRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetEngine(e *inventory.Engine) {
	engine = e
}

func SetThresholdManager(m *inventory.ThresholdManager) {
	thresholds = m
}

func SetBulkProcessor(p *inventory.BulkProcessor) {
	bulk = p
}

func SetDispatcher(d *inventory.Dispatcher) {
	dispatcher = d
}

func SetReportEngine(e *report.Engine) {
	reports = e
}

func SetGate(g authz.Gate) {
	gate = g
}

func SetLocationDirectory(d locations.Directory) {
	directory = d
}

func SetRefreshStore(s auth.RefreshTokenStore) {
	refreshStore = s
}
