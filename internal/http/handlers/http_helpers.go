package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rogerio-castellano/it-asset-tracker/internal/auth"
	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
)

// actionSecretHeader carries the shared secret required by the
// authorization gate on mutating operations.
const actionSecretHeader = "X-Action-Secret"

func GetRoleFromContext(r *http.Request) (string, error) {
	authorization := r.Header.Get("Authorization")

	_, claims, err := auth.TokenClaims(authorization)
	if err != nil {
		return "", err
	}

	if role, ok := claims["role"].(string); ok {
		return role, nil
	}
	return "", nil
}

// GetActorFromContext returns the authenticated username; it is recorded
// on every ledger entry the request produces.
func GetActorFromContext(r *http.Request) string {
	authorization := r.Header.Get("Authorization")

	_, claims, err := auth.TokenClaims(authorization)
	if err != nil {
		return ""
	}

	if username, ok := claims["username"].(string); ok {
		return username
	}
	return ""
}

// authorizeAction checks the gate exactly once for the whole logical
// operation. On refusal it writes the response and returns false; the
// caller must abort with no partial effect.
func authorizeAction(w http.ResponseWriter, r *http.Request, action authz.Action) bool {
	err := gate.Authorize(action, r.Header.Get(actionSecretHeader))
	if err == nil {
		return true
	}
	if errors.Is(err, authz.ErrPermissionDenied) {
		http.Error(w, "permission denied", http.StatusForbidden)
	} else {
		log.Printf("authorization check failed: %v", err)
		http.Error(w, "could not authorize action", http.StatusInternalServerError)
	}
	return false
}

// fixRFC3339Offset reverses the + for space substitution done by URL
// query decoding, otherwise time.Parse fails on zone offsets.
// Example: 2025-07-03T17:44:03+02:00 arrives as 2025-07-03T17:44:03 02:00.
func fixRFC3339Offset(s string) string {
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		return s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	return s
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}
