// Package authz holds the authorization gate for dangerous inventory
// actions. Whatever confirmation steps a UI puts in front of these
// actions, the core sees exactly one Authorize call per logical
// operation, before any write happens.
package authz

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Action identifies the kind of operation being authorized.
type Action string

const (
	ActionAdjust       Action = "adjust"
	ActionCorrect      Action = "correct"
	ActionSetThreshold Action = "set_threshold"
	ActionBulkUpdate   Action = "bulk_update"
	ActionDeleteItem   Action = "delete_item"
	ActionDeleteName   Action = "delete_name"
	ActionReconcile    Action = "reconcile"
)

// ErrPermissionDenied is returned when authorization is refused. The
// caller must abort the whole requested operation with no partial effect.
var ErrPermissionDenied = errors.New("permission denied")

type Gate interface {
	Authorize(action Action, secret string) error
}

// StrikeStore keeps the failed-attempt counter. Counters expire on their
// own so a lockout ends without explicit cleanup.
type StrikeStore interface {
	Count(key string) (int, error)
	Incr(key string, ttl time.Duration) (int, error)
	Reset(key string) error
}

const strikeKey = "authz:gate:strikes"

// SecretGate compares the presented secret against a bcrypt hash.
// Repeated failures lock the gate until the strike counter expires.
type SecretGate struct {
	hash       []byte
	strikes    StrikeStore
	maxStrikes int
	lockout    time.Duration
	log        zerolog.Logger
}

func NewSecretGate(secretHash string, strikes StrikeStore, maxStrikes int, lockout time.Duration, log zerolog.Logger) *SecretGate {
	if maxStrikes <= 0 {
		maxStrikes = 5
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &SecretGate{
		hash:       []byte(secretHash),
		strikes:    strikes,
		maxStrikes: maxStrikes,
		lockout:    lockout,
		log:        log,
	}
}

func (g *SecretGate) Authorize(action Action, secret string) error {
	count, err := g.strikes.Count(strikeKey)
	if err == nil && count >= g.maxStrikes {
		g.log.Warn().Str("action", string(action)).Int("strikes", count).Msg("authorization gate locked out")
		return ErrPermissionDenied
	}

	if bcrypt.CompareHashAndPassword(g.hash, []byte(secret)) != nil {
		strikes, _ := g.strikes.Incr(strikeKey, g.lockout)
		g.log.Warn().Str("action", string(action)).Int("strikes", strikes).Msg("authorization refused")
		return ErrPermissionDenied
	}

	_ = g.strikes.Reset(strikeKey)
	return nil
}
