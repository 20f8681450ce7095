package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/gymops/gymauth"
)

// headerToken is the custom token header checked before Authorization.
// Header names are case-insensitive on the wire, so the legacy lowercase
// "token" spelling lands on the same canonical key.
const headerToken = "Token"

const bearerPrefix = "Bearer "

// unauthorizedBody is the uniform rejection payload. The charset makes the
// body readable for cross-origin clients.
const unauthorizedBody = `{"code":401,"message":"please authenticate"}`

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by [Gate] for an
// authenticated request.
func PrincipalFromContext(ctx context.Context) (*gymauth.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*gymauth.Principal)
	return p, ok
}

// Gate returns middleware that admits a request only when it carries a
// valid token, unless the route is exempt or the request is an OPTIONS
// pre-flight probe (CORS headers themselves are the transport layer's
// concern). exempt may be nil to gate every route.
func Gate(engine *gymauth.Engine, exempt Exempter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if exempt != nil && exempt.IsAuthExempt(r) {
				next.ServeHTTP(w, r)
				return
			}
			if engine == nil {
				unauthorized(w)
				return
			}

			tok := extractToken(r.Header)
			if tok == "" {
				unauthorized(w)
				return
			}

			ctx := gymauth.WithClientIP(r.Context(), remoteIP(r))
			ctx = gymauth.WithUserAgent(ctx, r.UserAgent())

			principal, err := engine.Validate(ctx, tok)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx = context.WithValue(ctx, principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken checks the custom Token header (either spelling) first,
// then falls back to a standard Authorization header with the Bearer
// prefix stripped. First non-blank match wins.
func extractToken(h http.Header) string {
	if v := strings.TrimSpace(h.Get(headerToken)); v != "" {
		return v
	}
	if auth := h.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
