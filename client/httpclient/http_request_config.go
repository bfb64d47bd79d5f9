package httpclient

import (
	"context"
	"net/http"

	"github.com/joy-dx/rxnet/dto"
	"github.com/joy-dx/rxnet/utils"
)

// HTTPRequestConfig is immutable input (safe to reuse).
type HTTPRequestConfig struct {
	Method string            `json:"method" yaml:"method"`
	URL    string            `json:"url" yaml:"url"`
	Query  map[string]string `json:"query" yaml:"query"`
	Body   map[string]any    `json:"body" yaml:"body"`
	// BodyType application/json, application/x-www-form-urlencoded, multipart/form-data
	BodyType  string            `json:"body_type" yaml:"body_type"`
	Headers   map[string]string `json:"headers" yaml:"headers"`
	Multipart []utils.FormPart  `json:"-" yaml:"-"`
	// Upload streams a file as the raw body instead of Body/Multipart
	Upload *dto.Upload `json:"upload,omitempty" yaml:"upload,omitempty"`

	OnUploadProgress   ProgressFunc `json:"-" yaml:"-"`
	OnDownloadProgress ProgressFunc `json:"-" yaml:"-"`
}

func DefaultHTTPRequestConfig() HTTPRequestConfig {
	return HTTPRequestConfig{
		Method:   http.MethodGet,
		Body:     map[string]any{},
		BodyType: dto.BodyTypeJSON,
		Headers:  make(map[string]string),
	}
}

// FromDescriptor maps a resolver descriptor onto a transport request.
func FromDescriptor(desc dto.RequestDescriptor) HTTPRequestConfig {
	cfg := HTTPRequestConfig{
		Method:   desc.Method,
		URL:      desc.URL,
		Query:    desc.Query,
		Body:     desc.Body,
		BodyType: desc.BodyType,
		Headers:  desc.Headers,
		Upload:   desc.Upload,
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if cfg.BodyType == "" {
		cfg.BodyType = dto.BodyTypeJSON
	}
	for _, f := range desc.Multipart {
		cfg.Multipart = append(cfg.Multipart, utils.FormPart{
			Name:     f.Name,
			Value:    f.Value,
			FilePath: f.FilePath,
			FileName: f.FileName,
		})
	}
	return cfg
}

func (c *HTTPRequestConfig) Ref() dto.NetClientType {
	return NetClientHTTPRef
}

// TargetURL lets the service vet the destination before dispatch.
func (c *HTTPRequestConfig) TargetURL() string {
	return c.URL
}

func (c *HTTPRequestConfig) WithMethod(method string) *HTTPRequestConfig {
	c.Method = method
	return c
}
func (c *HTTPRequestConfig) WithBody(body map[string]any) *HTTPRequestConfig {
	c.Body = body
	return c
}
func (c *HTTPRequestConfig) WithHeaders(headers map[string]string) *HTTPRequestConfig {
	c.Headers = headers
	return c
}
func (c *HTTPRequestConfig) WithURL(url string) *HTTPRequestConfig {
	c.URL = url
	return c
}
func (c *HTTPRequestConfig) WithQuery(query map[string]string) *HTTPRequestConfig {
	c.Query = query
	return c
}
func (c *HTTPRequestConfig) WithMultipart(parts ...utils.FormPart) *HTTPRequestConfig {
	c.Multipart = append(c.Multipart, parts...)
	c.BodyType = dto.BodyTypeMultipart
	return c
}
func (c *HTTPRequestConfig) WithUpload(upload dto.Upload) *HTTPRequestConfig {
	c.Upload = &upload
	return c
}
func (c *HTTPRequestConfig) WithProgress(upload, download ProgressFunc) *HTTPRequestConfig {
	c.OnUploadProgress = upload
	c.OnDownloadProgress = download
	return c
}

// NewRequest creates a per-call mutable request object.
// This avoids mutating the config and avoids leaks without cloning the config maps.
func (c *HTTPRequestConfig) NewRequest(ctx context.Context) (any, error) {
	url, err := utils.WithQuery(c.URL, c.Query)
	if err != nil {
		return nil, err
	}
	r := &HTTPRequest{
		Method:             c.Method,
		URL:                url,
		BodyType:           c.BodyType,
		Headers:            make(map[string]string, len(c.Headers)),
		Multipart:          append([]utils.FormPart(nil), c.Multipart...),
		Upload:             c.Upload,
		OnUploadProgress:   c.OnUploadProgress,
		OnDownloadProgress: c.OnDownloadProgress,
	}
	for k, v := range c.Headers {
		r.Headers[k] = v
	}
	if c.Body != nil {
		r.Body = make(map[string]any, len(c.Body))
		for k, v := range c.Body {
			r.Body[k] = v
		}
	}
	return r, nil
}

// HTTPRequest is per-call mutable state.
type HTTPRequest struct {
	Method    string
	URL       string
	Body      map[string]any
	BodyType  string
	Headers   map[string]string
	Multipart []utils.FormPart
	Upload    *dto.Upload
	// Finalized wire body (deterministic for tests and retries)
	BodyBytes   []byte
	ContentType string

	OnUploadProgress   ProgressFunc
	OnDownloadProgress ProgressFunc
}

func (r *HTTPRequest) ClientType() dto.NetClientType { return NetClientHTTPRef }

func (r *HTTPRequest) SetHeader(k, v string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[k] = v
}

func (r *HTTPRequest) Header(k string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[k]
}
