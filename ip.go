package weblog

import (
	"context"
	"net/http"
	"strings"
)

// xffHeader is the proxy chain header consulted by ClientIP.
const xffHeader = "X-Forwarded-For"

// ClientIP returns the client address for a request.
//
// When an X-Forwarded-For header is present, the rightmost comma-separated
// token is returned, trimmed of surrounding space; that token is the address
// written by the nearest proxy and the hardest one to spoof. Otherwise the
// RemoteAddr field is returned verbatim, host:port included. ok is false
// when neither is present.
//
// No validation or proxy-trust evaluation is performed; callers needing
// hardened extraction should use a dedicated extractor.
func ClientIP(r *http.Request) (ip string, ok bool) {
	if r == nil {
		return "", false
	}

	if xff := r.Header.Get(xffHeader); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[len(parts)-1]), true
	}

	if r.RemoteAddr != "" {
		return r.RemoteAddr, true
	}
	return "", false
}

type ipContextKey struct{}

// ContextWithIP returns a context carrying the client address.
func ContextWithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipContextKey{}, ip)
}

// IPFromContext returns the client address stored by ContextWithIP.
func IPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ipContextKey{}).(string)
	return ip, ok
}

// Middleware resolves the client address once per request and stores it in
// the request context for downstream handlers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip, ok := ClientIP(r); ok {
			r = r.WithContext(ContextWithIP(r.Context(), ip))
		}
		next.ServeHTTP(w, r)
	})
}
