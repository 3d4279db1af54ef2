package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/it-asset-tracker/internal/locations"
	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// Mode selects how a bulk row's raw value is interpreted.
type Mode string

const (
	// ModeAdd treats the raw value as a signed delta.
	ModeAdd Mode = "ADD"
	// ModeCorrect treats the raw value as the desired absolute quantity.
	ModeCorrect Mode = "CORRECT"
)

// Row is one cell of the bulk update matrix.
type Row struct {
	ItemName string `json:"item_name"`
	Location string `json:"location"`
	RawValue string `json:"value"`
	Category string `json:"category,omitempty"`
}

// Batch is one administrative bulk submission: quantity rows plus
// threshold updates keyed by item name.
type Batch struct {
	Mode       Mode           `json:"mode"`
	Rows       []Row          `json:"rows"`
	Thresholds map[string]int `json:"thresholds,omitempty"`
}

type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Applied int        `json:"applied"`
	Errors  []RowError `json:"errors"`
}

// BulkProcessor applies a batch of independent row mutations. Rows are
// processed sequentially and isolated from each other: a failing row is
// recorded and does not roll back rows already applied.
//
// Phase order is load-bearing: (1) quantity rows, (2) threshold fan-outs,
// (3) force-create rows for untouched new names. The fan-out must run
// after the quantity phase so variants created earlier in the same batch
// are covered.
type BulkProcessor struct {
	engine     *Engine
	thresholds *ThresholdManager
	items      repo.ItemRepository
	directory  locations.Directory
	log        zerolog.Logger
}

func NewBulkProcessor(engine *Engine, thresholds *ThresholdManager, items repo.ItemRepository, directory locations.Directory, log zerolog.Logger) *BulkProcessor {
	return &BulkProcessor{
		engine:     engine,
		thresholds: thresholds,
		items:      items,
		directory:  directory,
		log:        log,
	}
}

// Process runs the batch. Row numbers in errors are 1-based and refer to
// the submitted row order.
func (p *BulkProcessor) Process(b Batch, actor string) (BulkResult, error) {
	if b.Mode != ModeAdd && b.Mode != ModeCorrect {
		return BulkResult{}, fmt.Errorf("unknown bulk mode %q", b.Mode)
	}

	res := BulkResult{Errors: []RowError{}}

	// Phase 1: quantity rows in submission order.
	for idx, row := range b.Rows {
		rowNum := idx + 1
		name := strings.TrimSpace(row.ItemName)
		if name == "" {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: "missing item name"})
			continue
		}
		if !p.directory.Valid(row.Location) {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: fmt.Sprintf("unknown location %q", row.Location)})
			continue
		}

		raw := strings.TrimSpace(row.RawValue)
		if raw == "" {
			continue // missing entries are skipped, not errors
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			continue // non-numeric entries are skipped, not errors
		}

		ref := ItemRef{Name: name, Location: row.Location, Category: row.Category}
		reason := fmt.Sprintf("bulk %s update", strings.ToLower(string(b.Mode)))

		if b.Mode == ModeCorrect {
			// The engine reads the current quantity and derives the
			// delta under its per-item lock; doing that here would race
			// a concurrent batch correcting the same row.
			_, wrote, err := p.engine.correct(ref, value, reason, actor)
			if err != nil {
				res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			if wrote {
				res.Applied++
			}
			continue
		}

		_, err = p.items.GetByNameAndLocation(name, row.Location)
		exists := err == nil
		if err != nil && !errors.Is(err, repo.ErrItemNotFound) {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if exists && value == 0 {
			continue
		}

		kind := models.KindRestock
		switch {
		case !exists:
			kind = models.KindInitial
		case value < 0:
			kind = models.KindIssue
		}

		if _, err := p.engine.Apply(ref, value, kind, reason, actor); err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		res.Applied++
	}

	// Phase 2: threshold fan-outs, in name order for a deterministic
	// error list.
	names := make([]string, 0, len(b.Thresholds))
	for name := range b.Thresholds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := p.thresholds.SetThreshold(name, b.Thresholds[name]); err != nil {
			res.Errors = append(res.Errors, RowError{Reason: fmt.Sprintf("threshold %q: %v", name, err)})
		}
	}

	// Phase 3: force-create rows whose (name, location) still has no
	// variant, so the name shows up in later views even with no stock.
	for _, row := range b.Rows {
		name := strings.TrimSpace(row.ItemName)
		if name == "" || !p.directory.Valid(row.Location) {
			continue
		}
		if _, err := p.items.GetByNameAndLocation(name, row.Location); err == nil {
			continue
		} else if !errors.Is(err, repo.ErrItemNotFound) {
			continue
		}

		ref := ItemRef{Name: name, Location: row.Location, Category: row.Category}
		item, err := p.engine.Apply(ref, 0, models.KindInitial, "created with no stock", actor)
		if err != nil {
			p.log.Error().Err(err).Str("item", name).Str("location", row.Location).Msg("force-create failed")
			continue
		}

		// The batch's own threshold map counts as part of the same
		// fan-out call for rows it creates.
		if t, ok := batchThreshold(b.Thresholds, name); ok {
			item.Threshold = t
			if _, err := p.items.Update(item); err != nil {
				p.log.Error().Err(err).Str("item", name).Msg("threshold on force-created row failed")
			}
		}
	}

	return res, nil
}

func batchThreshold(thresholds map[string]int, name string) (int, bool) {
	if t, ok := thresholds[name]; ok {
		return t, true
	}
	for k, t := range thresholds {
		if strings.EqualFold(k, name) {
			return t, true
		}
	}
	return 0, false
}
