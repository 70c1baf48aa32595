// Package request provides middleware that stamps each request with a
// correlation ID, a request-scoped timestamp, and client metadata. All
// downstream logging includes the request ID so one user action can be traced
// across the console and the backend calls it fans out to.
package request

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"betelgeuse-console/pkg/requestcontext"
)

// HeaderRequestID is echoed back so browser devtools and the reverse proxy can
// correlate console responses with backend traces.
const HeaderRequestID = "X-Request-ID"

// Middleware assigns a request ID (honoring an inbound X-Request-ID), captures
// the request time, and records client IP and User-Agent in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		ctx = requestcontext.WithClientMetadata(ctx, clientIP(r), r.UserAgent())

		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}

// clientIP prefers the leftmost X-Forwarded-For entry since the console runs
// behind a reverse proxy in production.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
