package httpclient

// -----------------------------------------------------------------------------
// HEADER + COOKIE MANAGEMENT
// -----------------------------------------------------------------------------

// attachAuth injects auth credentials or cookies into the request headers.
// An access token wins over cookies.
func (c *HTTPClient) attachAuth(req *HTTPRequest) {
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}

	if auth := c.token.AuthorizationHeader(); auth != "" {
		req.Headers["Authorization"] = auth
		return
	}

	if cookies := c.token.CookieHeader(); cookies != "" {
		req.Headers["Cookie"] = cookies
	}
}
