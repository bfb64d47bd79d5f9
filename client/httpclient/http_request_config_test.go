package httpclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/joy-dx/rxnet/dto"
)

func Test_HTTPRequestConfig_NewRequest_clonesMaps(t *testing.T) {
	cfg := DefaultHTTPRequestConfig()
	cfg.Method = http.MethodPost
	cfg.URL = "http://example.com"
	cfg.BodyType = "application/json"
	cfg.Headers["X-A"] = "1"
	cfg.Body["k"] = "v"

	anyReq, err := cfg.NewRequest(context.Background())
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}

	req := anyReq.(*HTTPRequest)

	// Mutate request maps and ensure config maps remain unchanged.
	req.Headers["X-A"] = "2"
	req.Headers["X-B"] = "3"
	req.Body["k"] = "vv"
	req.Body["k2"] = "v2"

	if cfg.Headers["X-A"] != "1" || cfg.Headers["X-B"] != "" {
		t.Fatalf("headers were not cloned: cfg.Headers=%v", cfg.Headers)
	}
	if cfg.Body["k"] != "v" || cfg.Body["k2"] != nil {
		t.Fatalf("body was not cloned: cfg.Body=%v", cfg.Body)
	}
}

func Test_HTTPRequestConfig_NewRequest_query_golden(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		query map[string]string
		want  string
	}{
		{name: "no query keeps url", url: "http://x/a?b=1", want: "http://x/a?b=1"},
		{name: "query appended", url: "http://x/a", query: map[string]string{"page": "2"}, want: "http://x/a?page=2"},
		{name: "query overrides", url: "http://x/a?page=1&q=z", query: map[string]string{"page": "3"}, want: "http://x/a?page=3&q=z"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultHTTPRequestConfig()
			cfg.WithURL(c.url).WithQuery(c.query)
			anyReq, err := cfg.NewRequest(context.Background())
			if err != nil {
				t.Fatalf("NewRequest error: %v", err)
			}
			if got := anyReq.(*HTTPRequest).URL; got != c.want {
				t.Fatalf("URL=%q; want %q", got, c.want)
			}
		})
	}
}

func Test_FromDescriptor_golden(t *testing.T) {
	desc := dto.Post("http://x/items").
		WithHeader("X-A", "1").
		WithParam("n", 1).
		WithMultipart(dto.MultipartField{Name: "f", FilePath: "/tmp/f", FileName: "f.txt"})

	cfg := FromDescriptor(desc)
	if cfg.Method != http.MethodPost || cfg.URL != "http://x/items" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.BodyType != dto.BodyTypeMultipart || len(cfg.Multipart) != 1 || cfg.Multipart[0].FileName != "f.txt" {
		t.Fatalf("multipart not carried: %+v", cfg.Multipart)
	}
	if cfg.Headers["X-A"] != "1" || cfg.Body["n"] != 1 {
		t.Fatalf("headers/body not carried: %+v", cfg)
	}
	if cfg.Ref() != NetClientHTTPRef {
		t.Fatalf("Ref=%s", cfg.Ref())
	}
}
