package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gymdesk/gymdesk-backend/api/responses"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

const maxPeekBodyBytes = 1 << 16

type authCounterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles an auth endpoint per client IP and, when the
// body carries one, per login identifier.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int64
	emailLimit int64
	store      authCounterStore
	logg       *logger.Logger
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int, store authCounterStore, logg *logger.Logger) *AuthRateLimitPolicy {
	if window <= 0 {
		window = time.Minute
	}
	return &AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    int64(ipLimit),
		emailLimit: int64(emailLimit),
		store:      store,
		logg:       logg,
	}
}

func (p *AuthRateLimitPolicy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p == nil || p.store == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if p.ipLimit > 0 && ip != "" {
			key := "gd:ratelimit:" + p.name + ":ip:" + ip
			count, err := p.store.IncrWithTTL(r.Context(), key, p.window)
			if err == nil && count > p.ipLimit {
				p.respondRateLimited(w, r, "ip", ip)
				return
			}
		}

		if p.emailLimit > 0 {
			if identifier := peekIdentifier(r); identifier != "" {
				sum := sha256.Sum256([]byte(strings.ToLower(identifier)))
				key := "gd:ratelimit:" + p.name + ":id:" + hex.EncodeToString(sum[:])
				count, err := p.store.IncrWithTTL(r.Context(), key, p.window)
				if err == nil && count > p.emailLimit {
					p.respondRateLimited(w, r, "identifier", "")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (p *AuthRateLimitPolicy) respondRateLimited(w http.ResponseWriter, r *http.Request, dimension, value string) {
	ctx := r.Context()
	if p.logg != nil {
		ctx = p.logg.WithFields(ctx, map[string]any{
			"policy":    p.name,
			"dimension": dimension,
			"value":     value,
		})
		p.logg.Warn(ctx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, p.logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// peekIdentifier reads the identifier or email field from a JSON body without
// consuming it for the downstream handler.
func peekIdentifier(r *http.Request) string {
	body, err := readAndRestoreBody(r)
	if err != nil || len(body) == 0 {
		return ""
	}
	var probe struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	if probe.Identifier != "" {
		return probe.Identifier
	}
	return probe.Email
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBodyBytes))
	if err != nil {
		return nil, err
	}
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
