package inventory

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/it-asset-tracker/internal/models"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
)

// CommandKind tags an administrative command variant.
type CommandKind string

const (
	CommandAdjust       CommandKind = "adjust"
	CommandCorrect      CommandKind = "correct"
	CommandSetThreshold CommandKind = "set_threshold"
	CommandReconcile    CommandKind = "reconcile"
	CommandDeleteItem   CommandKind = "delete_item"
	CommandDeleteName   CommandKind = "delete_name"
	CommandBulkUpdate   CommandKind = "bulk_update"
)

var ErrMissingPayload = errors.New("missing command payload")

type AdjustPayload struct {
	ItemName string           `json:"item_name"`
	Location string           `json:"location"`
	Category string           `json:"category,omitempty"`
	Delta    int              `json:"delta"`
	Kind     models.EntryKind `json:"kind,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

type CorrectPayload struct {
	ItemName string `json:"item_name"`
	Location string `json:"location"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

type ThresholdPayload struct {
	ItemName  string `json:"item_name"`
	Threshold int    `json:"threshold"`
}

type ReconcilePayload struct {
	ItemName string `json:"item_name"`
	Location string `json:"location"`
}

type DeleteItemPayload struct {
	ItemID int `json:"item_id"`
}

type DeleteNamePayload struct {
	ItemName string `json:"item_name"`
}

// Command is the tagged-variant admin action: one kind, one payload.
type Command struct {
	Kind      CommandKind       `json:"kind"`
	Adjust    *AdjustPayload    `json:"adjust,omitempty"`
	Correct   *CorrectPayload   `json:"correct,omitempty"`
	Threshold *ThresholdPayload `json:"threshold,omitempty"`
	Reconcile *ReconcilePayload `json:"reconcile,omitempty"`
	Delete    *DeleteItemPayload `json:"delete,omitempty"`
	DeleteAll *DeleteNamePayload `json:"delete_all,omitempty"`
	Bulk      *Batch            `json:"bulk,omitempty"`
}

// Dispatcher routes a Command to the matching engine operation.
type Dispatcher struct {
	engine     *Engine
	thresholds *ThresholdManager
	bulk       *BulkProcessor
	items      repo.ItemRepository
}

func NewDispatcher(engine *Engine, thresholds *ThresholdManager, bulk *BulkProcessor, items repo.ItemRepository) *Dispatcher {
	return &Dispatcher{
		engine:     engine,
		thresholds: thresholds,
		bulk:       bulk,
		items:      items,
	}
}

// Dispatch executes the command for the given actor and returns the
// operation result.
func (d *Dispatcher) Dispatch(cmd Command, actor string) (any, error) {
	switch cmd.Kind {
	case CommandAdjust:
		if cmd.Adjust == nil {
			return nil, ErrMissingPayload
		}
		p := cmd.Adjust
		kind := p.Kind
		if kind == "" {
			kind = models.KindRestock
			if p.Delta < 0 {
				kind = models.KindIssue
			}
		}
		ref := ItemRef{Name: p.ItemName, Location: p.Location, Category: p.Category}
		return d.engine.Apply(ref, p.Delta, kind, p.Reason, actor)

	case CommandCorrect:
		if cmd.Correct == nil {
			return nil, ErrMissingPayload
		}
		p := cmd.Correct
		ref := ItemRef{Name: p.ItemName, Location: p.Location}
		return d.engine.Correct(ref, p.Quantity, p.Reason, actor)

	case CommandSetThreshold:
		if cmd.Threshold == nil {
			return nil, ErrMissingPayload
		}
		return d.thresholds.SetThreshold(cmd.Threshold.ItemName, cmd.Threshold.Threshold)

	case CommandReconcile:
		if cmd.Reconcile == nil {
			return nil, ErrMissingPayload
		}
		ref := ItemRef{Name: cmd.Reconcile.ItemName, Location: cmd.Reconcile.Location}
		return d.engine.Reconcile(ref)

	case CommandDeleteItem:
		if cmd.Delete == nil {
			return nil, ErrMissingPayload
		}
		return nil, d.items.Delete(cmd.Delete.ItemID)

	case CommandDeleteName:
		if cmd.DeleteAll == nil {
			return nil, ErrMissingPayload
		}
		return d.items.DeleteByName(cmd.DeleteAll.ItemName)

	case CommandBulkUpdate:
		if cmd.Bulk == nil {
			return nil, ErrMissingPayload
		}
		return d.bulk.Process(*cmd.Bulk, actor)

	default:
		return nil, fmt.Errorf("unknown command kind %q", cmd.Kind)
	}
}

// GateAction maps a command kind to the authorization action it requires.
func GateAction(kind CommandKind) string {
	switch kind {
	case CommandAdjust:
		return "adjust"
	case CommandCorrect:
		return "correct"
	case CommandSetThreshold:
		return "set_threshold"
	case CommandReconcile:
		return "reconcile"
	case CommandDeleteItem:
		return "delete_item"
	case CommandDeleteName:
		return "delete_name"
	case CommandBulkUpdate:
		return "bulk_update"
	default:
		return string(kind)
	}
}
