package repo

type InMemoryMetricsRepository struct {
	itemRepo   ItemRepository
	ledgerRepo LedgerRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(itemRepo ItemRepository, ledgerRepo LedgerRepository) {
	i.itemRepo = itemRepo
	i.ledgerRepo = ledgerRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{}

	items, err := i.itemRepo.GetAll()
	if err != nil {
		return m, err
	}
	m.TotalItems = len(items)

	for _, item := range items {
		_, count, err := i.ledgerRepo.GetByItemID(item.ID, LedgerFilter{})
		if err != nil {
			return m, err
		}
		m.TotalEntries += count
		if count > m.MostMovedItem.EntryCount {
			m.MostMovedItem.Name = item.Name
			m.MostMovedItem.EntryCount = count
		}
	}

	// Low-stock is counted per location-variant, not deduplicated by name.
	for _, item := range items {
		if item.LowStock() {
			m.LowStockCount++
		}
	}

	return m, nil
}
