package httpclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joy-dx/rxnet/dto"
)

// ensureToken makes sure the session holds usable credentials, obtaining
// new ones when the current token is missing or inside the refresh buffer.
func (c *HTTPClient) ensureToken(ctx context.Context) error {
	c.tokenMu.RLock()
	fresh := !c.token.IsExpired(c.cfg.RefreshBuffer)
	c.tokenMu.RUnlock()
	if fresh {
		return nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if !c.token.IsExpired(c.cfg.RefreshBuffer) {
		return nil
	}
	next, err := c.obtainToken(ctx, c.token)
	if err != nil {
		return err
	}
	c.token = next
	return nil
}

// obtainToken asks the configured source for credentials. OAuth2 wins over
// an AuthProvider; with neither, current is returned unchanged.
func (c *HTTPClient) obtainToken(ctx context.Context, current dto.TokenInfo) (dto.TokenInfo, error) {
	switch {
	case c.cfg.OAuthSource != nil:
		oauthTok, err := c.cfg.OAuthSource.Token()
		if err != nil {
			return current, fmt.Errorf("oauth2 token fetch: %w", err)
		}
		current.AccessToken = oauthTok.AccessToken
		current.TokenType = dto.NormalizeAuthType(oauthTok.TokenType)
		current.Expiry = oauthTok.Expiry
		return current, nil

	case c.cfg.AuthProvider != nil:
		next, err := c.renew(ctx, current)
		if err != nil {
			return current, fmt.Errorf("auth provider refresh: %w", err)
		}
		next.TokenType = dto.NormalizeAuthType(next.TokenType)
		if len(next.Cookies) == 0 {
			next.Cookies = current.Cookies
		}
		return next, nil
	}
	return current, nil
}

// renew refreshes an existing session and falls back to a fresh login.
func (c *HTTPClient) renew(ctx context.Context, current dto.TokenInfo) (dto.TokenInfo, error) {
	if current.AccessToken == "" && len(current.Cookies) == 0 {
		return c.cfg.AuthProvider.Authenticate(ctx)
	}
	next, err := c.cfg.AuthProvider.Refresh(ctx, current)
	if err == nil {
		return next, nil
	}
	return c.cfg.AuthProvider.Authenticate(ctx)
}

// InvalidateSession drops the token and cookies so the next request
// authenticates again. It is meant to be called on a session-expired signal.
func (c *HTTPClient) InvalidateSession() {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = dto.TokenInfo{}
}

// captureCookiesFromResponse merges Set-Cookie values into the session by
// cookie name.
func (c *HTTPClient) captureCookiesFromResponse(resp dto.Response) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	for _, line := range resp.Headers.Values("Set-Cookie") {
		cookie, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		c.token.Cookies = mergeCookie(c.token.Cookies, cookie)
	}
}

func mergeCookie(jar []*http.Cookie, cookie *http.Cookie) []*http.Cookie {
	for i, existing := range jar {
		if existing.Name == cookie.Name {
			jar[i] = cookie
			return jar
		}
	}
	return append(jar, cookie)
}
