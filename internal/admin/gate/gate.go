// Package gate validates the shared-secret credential guarding the
// admin surface.
package gate

import (
	"crypto/subtle"
	"log/slog"
	"strings"
)

// Gate compares supplied credentials against a single server-held
// secret. It carries no lockout or rate limiting; callers respond to a
// failed check exactly as they would to a missing resource.
type Gate struct {
	key    string
	logger *slog.Logger
}

// New builds a Gate around the configured admin key. An empty key makes
// every validation fail (fail-closed).
func New(key string, logger *slog.Logger) *Gate {
	return &Gate{key: strings.TrimSpace(key), logger: logger}
}

// Validate reports whether supplied matches the server secret. The
// comparison is trimmed, case-sensitive, and constant-time.
func (g *Gate) Validate(supplied string) bool {
	if g.key == "" {
		g.logger.Error("admin key not configured; denying admin access")
		return false
	}
	supplied = strings.TrimSpace(supplied)
	if supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(g.key)) == 1
}
