package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Authenticator provides session middleware
type Authenticator interface {
	RequireAuth(next http.Handler) http.Handler
	OptionalAuth(next http.Handler) http.Handler
}

// maxBodyBytes caps request bodies; style batches are the largest payloads
const maxBodyBytes = 4 << 20

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dst)
}

// queryInt reads a positive integer query parameter
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

// parseTime parses an optional RFC3339 timestamp
func parseTime(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
