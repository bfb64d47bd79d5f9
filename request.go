package rxnet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/joy-dx/rxnet/client/httpclient"
	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/utils"
)

// ErrDomainNotAllowed is returned when a target host is blacklisted or
// missing from a non-empty whitelist.
var ErrDomainNotAllowed = errors.New("domain not allowed")

// targeted is implemented by request configs that know their destination.
type targeted interface {
	TargetURL() string
}

// Get issues a plain GET through the default client.
func (s *NetSvc) Get(ctx context.Context, url string, withRetry bool) (dto.Response, error) {
	httpRequestConfig := httpclient.DefaultHTTPRequestConfig()
	httpRequestConfig.WithURL(url)
	cfg := dto.DefaultRequestConfig()
	cfg.WithReqConfig(&httpRequestConfig).
		WithTaskName("GET " + url)

	if withRetry {
		return s.RequestWithRetry(ctx, &cfg)
	}
	return s.RequestOnce(ctx, &cfg)
}

// Post issues a JSON POST through the default client.
func (s *NetSvc) Post(ctx context.Context, url string, payload map[string]any, withRetry bool) (dto.Response, error) {
	httpRequestConfig := httpclient.DefaultHTTPRequestConfig()
	httpRequestConfig.WithURL(url).
		WithBody(payload).
		WithMethod(http.MethodPost)
	cfg := dto.DefaultRequestConfig()
	cfg.WithReqConfig(&httpRequestConfig).
		WithTaskName("POST " + url)

	if withRetry {
		return s.RequestWithRetry(ctx, &cfg)
	}
	return s.RequestOnce(ctx, &cfg)
}

// RequestWithRetry retries temporary transport errors and 5xx responses up
// to MaxRetries times, pausing with cfg.Delay between attempts.
func (s *NetSvc) RequestWithRetry(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Delay == nil {
		cfg.Delay = utils.ExponentialBackoff{}
	}
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := cfg.Delay.Wait(ctx, cfg.TaskName, attempt); err != nil {
				return dto.Response{}, fmt.Errorf("retry wait: %w", err)
			}
		}

		resp, err := s.RequestOnce(ctx, cfg)
		if err != nil {
			lastErr = err
			// transient network errors → retry
			if utils.IsTemporaryErr(err) && attempt < cfg.MaxRetries {
				continue
			}
			return resp, err
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			if attempt < cfg.MaxRetries {
				continue
			}
			// exhausted retries: return response + error
			return resp, fmt.Errorf(
				"failed after %d attempts: %w",
				cfg.MaxRetries+1,
				lastErr,
			)
		}
		return resp, nil
	}

	return dto.Response{}, fmt.Errorf("failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// RequestOnce dispatches cfg through its registered client exactly once.
func (s *NetSvc) RequestOnce(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}

	if cfg.ClientRef == "" {
		return dto.Response{}, errors.New("nil ClientRef provided")
	}

	if cfg.ReqConfig == nil {
		return dto.Response{}, dto.ErrNilReqConfig
	}

	if cfg.TaskName == "" {
		cfg.TaskName = "http_request"
	}

	netClient, isOK := s.client(cfg.ClientRef)
	if !isOK {
		return dto.Response{}, fmt.Errorf("client not found: %s", cfg.ClientRef)
	}

	// Sanity check that the req config matches the client type to avoid later casting confusion
	if netClient.Type() != cfg.ReqConfig.Ref() {
		return dto.Response{}, fmt.Errorf(
			"client type mismatch: client=%s(%s) req=%s",
			cfg.ClientRef,
			netClient.Type(),
			cfg.ReqConfig.Ref(),
		)
	}

	if t, ok := cfg.ReqConfig.(targeted); ok {
		if err := s.checkDomain(t.TargetURL()); err != nil {
			return dto.Response{}, err
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	response, err := netClient.ProcessRequest(ctx, cfg)
	if err != nil {
		return dto.Response{}, fmt.Errorf("perform request: %w", err)
	}

	return response, nil
}

// checkDomain enforces the black and white lists. A listed domain also
// covers its subdomains.
func (s *NetSvc) checkDomain(rawURL string) error {
	if len(s.cfg.BlacklistDomains) == 0 && len(s.cfg.WhitelistDomains) == 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	host := strings.ToLower(u.Hostname())

	for _, d := range s.cfg.BlacklistDomains {
		if domainMatches(host, d) {
			return fmt.Errorf("%w: %s is blacklisted", ErrDomainNotAllowed, host)
		}
	}
	if len(s.cfg.WhitelistDomains) == 0 {
		return nil
	}
	for _, d := range s.cfg.WhitelistDomains {
		if domainMatches(host, d) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not whitelisted", ErrDomainNotAllowed, host)
}

func domainMatches(host, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
