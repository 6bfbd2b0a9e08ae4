package http

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/bnema/galerie/internal/adapter/http/ratelimit"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier reports whether a presented bearer token is the admin token.
type TokenVerifier func(presented string) bool

// StaticToken compares against a plaintext token in constant time. An empty
// token yields nil, which disables the admin routes.
func StaticToken(token string) TokenVerifier {
	if token == "" {
		return nil
	}
	return func(presented string) bool {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
	}
}

// BcryptToken checks presented tokens against a bcrypt hash, so the
// plaintext never has to sit in the server's environment.
func BcryptToken(hash string) TokenVerifier {
	if hash == "" {
		return nil
	}
	return func(presented string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
	}
}

// AdminAuth guards the admin routes with a bearer token. Clients that keep
// failing are locked out by the limiter.
func AdminAuth(verify TokenVerifier, limiter *ratelimit.FailureLimiter, trustProxy bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if verify == nil {
			writeMessage(w, http.StatusServiceUnavailable, "admin api disabled")
			return
		}

		client := clientIP(r, trustProxy)
		if blocked, retry := limiter.Blocked(client); blocked {
			tooManyAttempts(w, retry.Seconds())
			return
		}

		presented, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || !verify(presented) {
			blocked, retry := limiter.RecordFailure(client)
			zerolog.Ctx(r.Context()).Warn().Str("client", client).Bool("blocked", blocked).Msg("rejected admin token")
			if blocked {
				tooManyAttempts(w, retry.Seconds())
				return
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="galerie"`)
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		limiter.Reset(client)
		next(w, r)
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	presented := strings.TrimSpace(header[len(prefix):])
	return presented, presented != ""
}

func tooManyAttempts(w http.ResponseWriter, seconds float64) {
	w.Header().Set("Retry-After", strconv.Itoa(int(seconds)+1))
	writeMessage(w, http.StatusTooManyRequests, "too many failed attempts")
}

// clientIP keys the limiter. X-Forwarded-For is only honoured behind a proxy
// we control.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
