package httpclient

import (
	"context"

	"github.com/joy-dx/rxnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// StaticHeaderMiddleware injects static headers into every request.
func StaticHeaderMiddleware(headers map[string]string) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		for k, v := range headers {
			r.Headers[k] = v
		}
		return nil
	}
}

// LoggingMiddleware relays every outgoing request at debug level.
func LoggingMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		relay.Debug(relays.RlyNetLog{Msg: "[HTTP] " + r.Method + " " + r.URL})
		return nil
	}
}

// InjectFieldMiddleware sets key in the body of every request.
func InjectFieldMiddleware(key string, val any) Middleware {
	return func(ctx context.Context, r *HTTPRequest) error {
		if r.Body == nil {
			r.Body = map[string]any{}
		}
		r.Body[key] = val

		// Ensure final bytes will be recomputed from Body.
		r.BodyBytes = nil
		r.ContentType = ""
		return nil
	}
}
