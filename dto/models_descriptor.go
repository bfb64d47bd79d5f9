package dto

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joy-dx/rxnet/utils"
)

// CachePolicy selects what the resolver persists for a request.
type CachePolicy string

const (
	CacheNone CachePolicy = "none"
	// CacheResponse serves and stores successful responses
	CacheResponse CachePolicy = "cache_response"
	// CacheRequest logs requests that failed at the network level for replay
	CacheRequest CachePolicy = "cache_request"
)

const (
	BodyTypeJSON      = "application/json"
	BodyTypeForm      = "application/x-www-form-urlencoded"
	BodyTypeMultipart = "multipart/form-data"
)

// MultipartField is one part of a multipart body. Either Value or FilePath is used.
type MultipartField struct {
	Name     string `json:"name" yaml:"name"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
}

// Upload streams a file as the raw request body.
type Upload struct {
	FilePath    string `json:"file_path" yaml:"file_path"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// RequestDescriptor identifies a logical request. Builders copy; a descriptor
// handed to the resolver is not mutated.
type RequestDescriptor struct {
	ClientRef   string            `json:"client_ref" yaml:"client_ref"`
	TaskName    string            `json:"task_name,omitempty" yaml:"task_name,omitempty"`
	Method      string            `json:"method" yaml:"method"`
	URL         string            `json:"url" yaml:"url"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Query       map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Body        map[string]any    `json:"body,omitempty" yaml:"body,omitempty"`
	BodyType    string            `json:"body_type,omitempty" yaml:"body_type,omitempty"`
	Multipart   []MultipartField  `json:"multipart,omitempty" yaml:"multipart,omitempty"`
	Upload      *Upload           `json:"upload,omitempty" yaml:"upload,omitempty"`
	CachePolicy CachePolicy       `json:"cache_policy" yaml:"cache_policy"`
	Timeout     time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries  int               `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

func NewRequestDescriptor(method, url string) RequestDescriptor {
	return RequestDescriptor{
		ClientRef:   NET_DEFAULT_CLIENT_REF,
		Method:      method,
		URL:         url,
		BodyType:    BodyTypeJSON,
		CachePolicy: CacheNone,
	}
}

func Get(url string) RequestDescriptor  { return NewRequestDescriptor(http.MethodGet, url) }
func Post(url string) RequestDescriptor { return NewRequestDescriptor(http.MethodPost, url) }

func (d RequestDescriptor) WithClientRef(ref string) RequestDescriptor {
	d.ClientRef = ref
	return d
}

func (d RequestDescriptor) WithTaskName(name string) RequestDescriptor {
	d.TaskName = name
	return d
}

func (d RequestDescriptor) WithHeader(k, v string) RequestDescriptor {
	d.Headers = copyStrings(d.Headers)
	d.Headers[k] = v
	return d
}

func (d RequestDescriptor) WithQuery(k, v string) RequestDescriptor {
	d.Query = copyStrings(d.Query)
	d.Query[k] = v
	return d
}

func (d RequestDescriptor) WithParam(k string, v any) RequestDescriptor {
	body := make(map[string]any, len(d.Body)+1)
	for bk, bv := range d.Body {
		body[bk] = bv
	}
	body[k] = v
	d.Body = body
	return d
}

func (d RequestDescriptor) WithBody(body map[string]any) RequestDescriptor {
	d.Body = body
	return d
}

func (d RequestDescriptor) WithBodyType(bodyType string) RequestDescriptor {
	d.BodyType = bodyType
	return d
}

func (d RequestDescriptor) WithMultipart(fields ...MultipartField) RequestDescriptor {
	d.Multipart = append(append([]MultipartField(nil), d.Multipart...), fields...)
	d.BodyType = BodyTypeMultipart
	return d
}

func (d RequestDescriptor) WithUpload(u Upload) RequestDescriptor {
	d.Upload = &u
	return d
}

func (d RequestDescriptor) WithCachePolicy(p CachePolicy) RequestDescriptor {
	d.CachePolicy = p
	return d
}

func (d RequestDescriptor) WithTimeout(t time.Duration) RequestDescriptor {
	d.Timeout = t
	return d
}

func (d RequestDescriptor) WithMaxRetries(n int) RequestDescriptor {
	d.MaxRetries = n
	return d
}

func (d RequestDescriptor) Name() string {
	if d.TaskName != "" {
		return d.TaskName
	}
	return strings.ToUpper(d.Method) + " " + d.URL
}

// CacheKey is a stable hash of URL, method, headers and the task shape.
// encoding/json sorts map keys, so equal descriptors always hash equally.
func (d RequestDescriptor) CacheKey() string {
	shape := struct {
		URL       string            `json:"u"`
		Method    string            `json:"m"`
		Headers   map[string]string `json:"h,omitempty"`
		Query     map[string]string `json:"q,omitempty"`
		Body      map[string]any    `json:"b,omitempty"`
		BodyType  string            `json:"t,omitempty"`
		Multipart []MultipartField  `json:"p,omitempty"`
		Upload    *Upload           `json:"f,omitempty"`
	}{
		URL:       d.URL,
		Method:    strings.ToUpper(d.Method),
		Headers:   d.Headers,
		Query:     d.Query,
		Body:      d.Body,
		BodyType:  d.BodyType,
		Multipart: d.Multipart,
		Upload:    d.Upload,
	}
	buf, err := json.Marshal(shape)
	if err != nil {
		// unmarshalable body values still need a deterministic key
		buf = []byte(fmt.Sprintf("%s,%s,%v,%v,%v", shape.URL, shape.Method, shape.Headers, shape.Query, shape.Body))
	}
	return utils.Sha256Hex(buf)
}

func (d RequestDescriptor) Serialize() (string, error) {
	buf, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("serialize descriptor: %w", err)
	}
	return string(buf), nil
}

func ParseRequestDescriptor(value string) (RequestDescriptor, error) {
	var d RequestDescriptor
	if err := json.Unmarshal([]byte(value), &d); err != nil {
		return RequestDescriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}
	return d, nil
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
