package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
	pkgredis "github.com/gymdesk/gymdesk-backend/pkg/redis"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
)

type idempotencyRule struct {
	method  string
	matches func(pattern string) bool
	ttl     time.Duration
}

func matchExact(want string) func(string) bool {
	return func(pattern string) bool { return pattern == want }
}

// idempotencyRules lists the mutating routes that require an Idempotency-Key.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, matches: matchExact("/api/v1/members"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, matches: matchExact("/api/v1/members/{memberId}/renew"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, matches: matchExact("/api/v1/membership-types"), ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, matches: matchExact("/api/v1/gyms/me/staff/invite"), ttl: defaultIdempotencyTTL},
}

type storedIdempotentResponse struct {
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
}

type responseCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(p []byte) (int, error) {
	c.buf.Write(p)
	return c.ResponseWriter.Write(p)
}

// Idempotency replays a stored response when a request repeats the same
// Idempotency-Key with the same body, and rejects key reuse with a different
// body.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := matchIdempotencyRule(r)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key header required"))
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read request body"))
				return
			}
			hash := requestHash(r.Method, r.URL.Path, body)

			storeKey := store.IdempotencyKey(UserIDFromContext(r.Context()), key)
			if raw, err := store.Get(r.Context(), storeKey); err == nil && raw != "" {
				var stored storedIdempotentResponse
				if err := json.Unmarshal([]byte(raw), &stored); err == nil {
					if stored.RequestHash != hash {
						responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key reused with a different request"))
						return
					}
					replayStoredResponse(w, stored)
					return
				}
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.status == 0 {
				capture.status = http.StatusOK
			}
			if capture.status >= http.StatusInternalServerError {
				return
			}

			record := storedIdempotentResponse{
				RequestHash: hash,
				Status:      capture.status,
				Body:        base64.StdEncoding.EncodeToString(capture.buf.Bytes()),
				ContentType: capture.Header().Get("Content-Type"),
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				return
			}
			if _, err := store.SetNX(r.Context(), storeKey, string(encoded), rule.ttl); err != nil && logg != nil {
				logg.Error(r.Context(), "idempotency.store_failed", err)
			}
		})
	}
}

func matchIdempotencyRule(r *http.Request) (idempotencyRule, bool) {
	pattern := chi.RouteContext(r.Context()).RoutePattern()
	for _, rule := range idempotencyRules {
		if rule.method == r.Method && rule.matches(pattern) {
			return rule, true
		}
	}
	return idempotencyRule{}, false
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte("\n"))
	h.Write([]byte(path))
	h.Write([]byte("\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func replayStoredResponse(w http.ResponseWriter, stored storedIdempotentResponse) {
	decoded, err := base64.StdEncoding.DecodeString(stored.Body)
	if err != nil {
		decoded = nil
	}
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(stored.Status)
	w.Write(decoded)
}
