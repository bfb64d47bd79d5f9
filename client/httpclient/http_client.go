package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
)

// -----------------------------------------------------------------------------
// PERSISTENT CLIENT IMPLEMENTATION
// -----------------------------------------------------------------------------

// HTTPClient is the net/http transport behind dto.NetClientInterface,
// providing automatic authentication and session management.
//
// It supports multiple authentication modes:
//   - OAuth2 TokenSource (golang.org/x/oauth2)
//   - Custom AuthProvider
//   - Cookie-based sessions
//
// Any HTTP status is a transport success; interpreting the body is left to
// the envelope decoder.

const NetClientHTTPRef dto.NetClientType = "net.client.http"

type HTTPClient struct {
	NetClient dto.NetClient `json:"net_client" yaml:"net_client"`
	cfg       *HTTPClientConfig
	netCfg    *config.NetSvcConfig
	client    *http.Client
	token     dto.TokenInfo
	tokenMu   sync.RWMutex
}

func NewHTTPClient(ref string, netCfg *config.NetSvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	return &HTTPClient{
		cfg:    cfg,
		netCfg: netCfg,
		NetClient: dto.NetClient{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  NetClientHTTPRef,
			Description: "Perform HTTP requests to given URLs including auth support",
		},
		client: &http.Client{
			Timeout: netCfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				DisableKeepAlives:   false,
				Proxy:               http.ProxyFromEnvironment,
			},
		},
	}
}

func (c *HTTPClient) Ref() string {
	return c.NetClient.Ref
}
func (c *HTTPClient) Type() dto.NetClientType {
	return NetClientHTTPRef
}

// -----------------------------------------------------------------------------
// REQUEST EXECUTION
// -----------------------------------------------------------------------------

// ProcessRequest executes one authenticated, middleware-wrapped call.
// Automatically handles token lifetimes, OAuth2 renewal, and cookie sessions.
//
// If multiple authentication mechanisms are configured, OAuth2 takes precedence.
// AuthProvider is used as a fallback.
func (c *HTTPClient) ProcessRequest(ctx context.Context, inCfg *dto.RequestConfig) (dto.Response, error) {
	cfg, castOk := inCfg.ReqConfig.(*HTTPRequestConfig)
	if !castOk {
		return dto.Response{}, errors.New("problem casting to httprequestconfig")
	}

	reqAny, err := cfg.NewRequest(ctx)
	if err != nil {
		return dto.Response{}, fmt.Errorf("build request: %w", err)
	}
	reqCfg, ok := reqAny.(*HTTPRequest)
	if !ok {
		return dto.Response{}, errors.New("problem casting built request to httprequest")
	}

	c.applyServiceHeaders(reqCfg)

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, reqCfg); err != nil {
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := c.ensureToken(ctx); err != nil {
		return dto.Response{}, fmt.Errorf("ensure token: %w", err)
	}

	c.tokenMu.RLock()
	c.attachAuth(reqCfg)
	c.tokenMu.RUnlock()

	if err := reqCfg.FinalizeBody(); err != nil {
		return dto.Response{}, err
	}

	body, size, closer, err := reqCfg.openBody()
	if err != nil {
		return dto.Response{}, err
	}
	if closer != nil {
		defer closer.Close()
	}
	if body != nil && reqCfg.OnUploadProgress != nil {
		body = newProgressReader(ctx, body, size, c.cfg.ProgressInterval, reqCfg.OnUploadProgress)
	}

	httpReq, err := http.NewRequestWithContext(ctx, reqCfg.Method, reqCfg.URL, body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.ContentLength = size
	}

	for k, v := range reqCfg.Headers {
		httpReq.Header.Set(k, v)
	}

	if reqCfg.ContentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", reqCfg.ContentType)
	}

	// httpResp may be non-nil with error
	httpResp, reqErr := c.client.Do(httpReq)
	if httpResp != nil {
		defer func() {
			io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
			httpResp.Body.Close()
		}()
	}
	if reqErr != nil {
		return dto.Response{}, fmt.Errorf("perform request: %w", reqErr)
	}

	var respBody io.Reader = httpResp.Body
	if reqCfg.OnDownloadProgress != nil {
		respBody = newProgressReader(ctx, respBody, httpResp.ContentLength, c.cfg.ProgressInterval, reqCfg.OnDownloadProgress)
	}
	bodyBytes, err := io.ReadAll(respBody)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	response := dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       bodyBytes,
	}

	// Capture cookies, prunes if expired
	if setCookies := response.Headers["Set-Cookie"]; len(setCookies) > 0 {
		c.captureCookiesFromResponse(response)
	}

	return response, nil
}

// applyServiceHeaders adds the service-wide user agent and extra headers
// without overriding headers the request set itself.
func (c *HTTPClient) applyServiceHeaders(req *HTTPRequest) {
	if c.netCfg == nil {
		return
	}
	if c.netCfg.UserAgent != "" && req.Header("User-Agent") == "" {
		req.SetHeader("User-Agent", c.netCfg.UserAgent)
	}
	for k, v := range c.netCfg.ExtraHeaders {
		if req.Header(k) == "" {
			req.SetHeader(k, v)
		}
	}
}
