package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(jwtSecretFromEnv())

func jwtSecretFromEnv() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "brewhaus-dev-secret"
}

// Context keys
type ContextKey string

const CustomerIDKey ContextKey = "customerId"
const SessionIDKey ContextKey = "sessionId"

var Ctx = context.Background()
