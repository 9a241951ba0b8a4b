package globals

import "os"

// JwtSecret signs and verifies admin tokens. Override with JWT_SECRET.
var JwtSecret = []byte(envOr("JWT_SECRET", "change_me_in_production"))

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RolesKey ContextKey = "roles"
