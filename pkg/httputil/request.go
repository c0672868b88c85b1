package httputil

import (
	"net/http"
	"strings"
)

// GetClientIP extracts the real client IP address from request headers.
// It handles proxy scenarios by checking headers in this order:
//  1. X-Forwarded-For (extracts first/client IP from comma-separated list)
//  2. X-Real-IP (single IP from reverse proxy)
//  3. RemoteAddr (direct connection)
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2"
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// BearerToken extracts the credential from an Authorization header of the
// form "Bearer <token>". Returns empty string when the header is absent or
// not bearer-shaped.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
