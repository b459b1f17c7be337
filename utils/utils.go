package utils

import (
	"fmt"
	"math"
	rndm "math/rand"
	"net/http"
	"os"
	"strings"

	"brewhaus/globals"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// --- Money ---

// Round2 rounds a monetary amount to two decimal places for display
// and for payload totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders an amount as it appears on receipts.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", Round2(v))
}

// --- Request context helpers ---

// GetCustomerIDFromRequest returns the authenticated customer id, or "".
func GetCustomerIDFromRequest(r *http.Request) string {
	if id, ok := r.Context().Value(globals.CustomerIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSessionIDFromRequest returns the storefront session id, or "".
// The session middleware sets the context value; the header and cookie
// fallbacks cover handlers mounted outside it (websocket upgrade path).
func GetSessionIDFromRequest(r *http.Request) string {
	if id, ok := r.Context().Value(globals.SessionIDKey).(string); ok && id != "" {
		return id
	}
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

const SessionCookieName = "bh_session"

// --- Env helpers ---

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --- Misc ---

func TrimAll(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
