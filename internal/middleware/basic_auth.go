package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "eosoracle/internal/errors"
)

// DefaultCredentials is used when no user list is configured.
const DefaultCredentials = "admin:admin"

const basicRealm = `Basic realm="eos-oracle"`

// Credentials maps user names to passwords. A password stored as a bcrypt
// hash ("$2a$...", "$2b$...", "$2y$...") is checked against the hash.
type Credentials map[string]string

// ParseCredentials parses a "user1:pass1,user2:pass2" list. Entries are
// trimmed and split on the first colon, so passwords may contain colons.
// Entries without a colon or without a user name are skipped, and a repeated
// user keeps its last password. An empty list falls back to DefaultCredentials.
func ParseCredentials(s string) Credentials {
	if strings.TrimSpace(s) == "" {
		s = DefaultCredentials
	}

	creds := make(Credentials)
	for _, entry := range strings.Split(s, ",") {
		user, pass, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || user == "" {
			continue
		}
		creds[user] = pass
	}
	return creds
}

// Valid reports whether the user exists with the given password.
func (c Credentials) Valid(user, pass string) bool {
	expected, ok := c[user]
	if ok && isBcryptHash(expected) {
		return bcrypt.CompareHashAndPassword([]byte(expected), []byte(pass)) == nil
	}
	if !ok {
		// unknown users still run a full comparison
		expected = pass + "x"
	}
	match := subtle.ConstantTimeCompare([]byte(pass), []byte(expected)) == 1
	return ok && match
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// BasicAuth creates a Gin middleware that requires HTTP Basic credentials
// from creds. Rejected requests never reach the handler.
func BasicAuth(creds Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || !creds.Valid(user, pass) {
			c.Header("WWW-Authenticate", basicRealm)
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}
