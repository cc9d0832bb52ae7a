package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/google/uuid"
)

var hashSalt = func() string {
	if s := os.Getenv("LOG_HASH_SALT"); s != "" {
		return s
	}

	return "spendtrack-log-salt"
}()

// HashID returns a short, stable pseudonym for a user id so log lines can be
// correlated without exposing the id itself.
func HashID(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String() + ":" + hashSalt))
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeEmail keeps only the domain of an address.
func SanitizeEmail(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return "<redacted>" + email[i:]
	}

	return "<redacted>"
}
