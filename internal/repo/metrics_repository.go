package repo

type MostMovedItem struct {
	Name       string `json:"name"`
	EntryCount int    `json:"entry_count"`
}

type Metrics struct {
	TotalItems    int           `json:"total_items"`
	TotalEntries  int           `json:"total_entries"`
	LowStockCount int           `json:"low_stock_count"`
	MostMovedItem MostMovedItem `json:"most_moved_item"`
}

type MetricsRepository interface {
	GetDashboardMetrics() (Metrics, error)
}
