package handlers

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/report"
)

// parseReportWindow reads location/since/until query parameters. The
// window defaults to all history up to now; both bounds are inclusive.
func parseReportWindow(w http.ResponseWriter, r *http.Request) (location string, start, end time.Time, ok bool) {
	q := r.URL.Query()

	location = q.Get("location")
	if location == "" {
		location = report.AllLocations
	}
	if location != report.AllLocations && !directory.Valid(location) {
		http.Error(w, "unknown location", http.StatusBadRequest)
		return "", time.Time{}, time.Time{}, false
	}

	end = time.Now().UTC()

	sinceStr := fixRFC3339Offset(q.Get("since"))
	untilStr := fixRFC3339Offset(q.Get("until"))

	if sinceStr != "" {
		ts, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			log.Printf("could not parse since date %s: %v", sinceStr, err)
			http.Error(w, "invalid since date format", http.StatusBadRequest)
			return "", time.Time{}, time.Time{}, false
		}
		start = ts
	}
	if untilStr != "" {
		ts, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			log.Printf("could not parse until date %s: %v", untilStr, err)
			http.Error(w, "invalid until date format", http.StatusBadRequest)
			return "", time.Time{}, time.Time{}, false
		}
		end = ts
	}

	if end.Before(start) {
		http.Error(w, "until must not be before since", http.StatusBadRequest)
		return "", time.Time{}, time.Time{}, false
	}

	return location, start, end, true
}

// StockReportHandler godoc
// @Summary Opening/added/consumed/closing stock per item over a window
// @Tags reports
// @Produce json
// @Param location query string false "Location code, or All to aggregate variants by name"
// @Param since query string false "Window start (RFC3339, inclusive)"
// @Param until query string false "Window end (RFC3339, inclusive)"
// @Success 200 {array} report.StockRow
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /reports/stock [get]
func StockReportHandler(w http.ResponseWriter, r *http.Request) {
	location, start, end, ok := parseReportWindow(w, r)
	if !ok {
		return
	}

	rows, err := reports.StockReport(location, start, end)
	if err != nil {
		log.Printf("could not compute stock report: %v", err)
		http.Error(w, "could not compute report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// ClaimsReportHandler godoc
// @Summary Issued stock with who claimed it, over a window
// @Tags reports
// @Produce json
// @Param location query string false "Location code, or All"
// @Param since query string false "Window start (RFC3339, inclusive)"
// @Param until query string false "Window end (RFC3339, inclusive)"
// @Success 200 {array} report.ClaimRow
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /reports/claims [get]
func ClaimsReportHandler(w http.ResponseWriter, r *http.Request) {
	location, start, end, ok := parseReportWindow(w, r)
	if !ok {
		return
	}

	rows, err := reports.ClaimsReport(location, start, end)
	if err != nil {
		log.Printf("could not compute claims report: %v", err)
		http.Error(w, "could not compute report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func exportTable(w http.ResponseWriter, r *http.Request, t report.Table, filename string) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.json"`)
		json.NewEncoder(w).Encode(t)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write(t.Headers)
		for _, row := range t.Rows {
			_ = csvWriter.Write(row)
		}
		csvWriter.Flush()
	}
}

// ExportStockReportHandler godoc
// @Summary Export the stock report
// @Tags reports
// @Produce text/csv, application/json
// @Param format query string true "Export format (csv or json)"
// @Param location query string false "Location code, or All"
// @Param since query string false "Window start (RFC3339, inclusive)"
// @Param until query string false "Window end (RFC3339, inclusive)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /reports/stock/export [get]
func ExportStockReportHandler(w http.ResponseWriter, r *http.Request) {
	location, start, end, ok := parseReportWindow(w, r)
	if !ok {
		return
	}

	rows, err := reports.StockReport(location, start, end)
	if err != nil {
		http.Error(w, "could not compute report", http.StatusInternalServerError)
		return
	}

	exportTable(w, r, report.StockTable(rows), "stock_report")
}

// ExportClaimsReportHandler godoc
// @Summary Export the claims report
// @Tags reports
// @Produce text/csv, application/json
// @Param format query string true "Export format (csv or json)"
// @Param location query string false "Location code, or All"
// @Param since query string false "Window start (RFC3339, inclusive)"
// @Param until query string false "Window end (RFC3339, inclusive)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /reports/claims/export [get]
func ExportClaimsReportHandler(w http.ResponseWriter, r *http.Request) {
	location, start, end, ok := parseReportWindow(w, r)
	if !ok {
		return
	}

	rows, err := reports.ClaimsReport(location, start, end)
	if err != nil {
		http.Error(w, "could not compute report", http.StatusInternalServerError)
		return
	}

	exportTable(w, r, report.ClaimsTable(rows), "claims_report")
}
