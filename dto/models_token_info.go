package dto

import (
	"net/http"
	"strings"
	"time"
)

// TokenInfo represents active credential or session data.
// It supports both header-based tokens and cookie-based sessions.
type TokenInfo struct {
	// Authorization token, e.g. "Bearer abc123" or "Basic Zm9vOmJhcg=="
	AccessToken string
	// TokenType is inferred if not provided (default "Bearer").
	TokenType string
	// Expiry time. Optional, empty for cookie-only sessions.
	Expiry  time.Time
	Cookies []*http.Cookie
}

// IsExpired returns true if the token is close to or past expiry.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	if t.AccessToken == "" && len(t.Cookies) == 0 {
		return true
	}
	if t.Expiry.IsZero() {
		// Sessions with no expiry are considered indefinitely valid
		return false
	}
	return time.Now().After(t.Expiry.Add(-buffer))
}

// AuthorizationHeader renders the Authorization value, inferring "Bearer".
func (t *TokenInfo) AuthorizationHeader() string {
	if t.AccessToken == "" {
		return ""
	}
	return NormalizeAuthType(t.TokenType) + " " + t.AccessToken
}

// CookieHeader joins session cookies into a Cookie header value.
func (t *TokenInfo) CookieHeader() string {
	parts := make([]string, 0, len(t.Cookies))
	for _, ck := range t.Cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// NormalizeAuthType ensures "Bearer", "Basic" or custom capitalization.
func NormalizeAuthType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer", "":
		return "Bearer"
	case "basic":
		return "Basic"
	default:
		return t
	}
}
