package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joy-dx/rxnet/config"
	"github.com/joy-dx/rxnet/dto"
)

type progressLog struct {
	mu    sync.Mutex
	calls []float64
	done  int64
	total int64
}

func (p *progressLog) fn(done, total int64, percent float64, speed float64, eta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, percent)
	p.done, p.total = done, total
}

func (p *progressLog) last() (float64, int64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return 0, 0, 0
	}
	return p.calls[len(p.calls)-1], p.done, len(p.calls)
}

func Test_HTTPClient_FromDescriptor_queryAndMultipart_golden(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "avatar.txt")
	if err := os.WriteFile(file, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	type seen struct {
		query    string
		field    string
		fileName string
		fileBody string
	}
	var got seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.query = r.URL.Query().Get("page")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		got.field = r.FormValue("title")
		f, hdr, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got.fileName, got.fileBody = hdr.Filename, string(b)
		_, _ = w.Write([]byte(`{"code":200}`))
	}))
	defer srv.Close()

	desc := dto.Post(srv.URL+"/upload?keep=1").
		WithQuery("page", "2").
		WithMultipart(
			dto.MultipartField{Name: "title", Value: "me"},
			dto.MultipartField{Name: "avatar", FilePath: file},
		)
	reqCfg := FromDescriptor(desc)

	c := newTestClient(t, nil)
	resp, err := c.ProcessRequest(context.Background(), &dto.RequestConfig{ReqConfig: &reqCfg})
	if err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status=%d; want 200", resp.StatusCode)
	}

	want := seen{query: "2", field: "me", fileName: "avatar.txt", fileBody: "pixels"}
	if got != want {
		t.Fatalf("server saw %+v; want %+v", got, want)
	}
}

func Test_HTTPClient_UploadAndDownloadProgress_golden(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)
	dir := t.TempDir()
	file := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(file, []byte(payload), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var gotCT string
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotLen = len(b)
		w.Header().Set("Content-Length", "11")
		_, _ = w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	up, down := &progressLog{}, &progressLog{}
	reqCfg := DefaultHTTPRequestConfig()
	reqCfg.WithMethod(http.MethodPut).
		WithURL(srv.URL).
		WithUpload(dto.Upload{FilePath: file, ContentType: "application/x-blob"}).
		WithProgress(up.fn, down.fn)

	cfg := DefaultHTTPClientConfig()
	cfg.WithProgressInterval(time.Hour)
	c := newTestClient(t, &cfg)

	resp, err := c.ProcessRequest(context.Background(), &dto.RequestConfig{ReqConfig: &reqCfg})
	if err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}
	if string(resp.Body) != "hello world" {
		t.Fatalf("body=%q", resp.Body)
	}
	if gotCT != "application/x-blob" || gotLen != len(payload) {
		t.Fatalf("server saw ct=%q len=%d", gotCT, gotLen)
	}

	if pct, done, n := up.last(); n == 0 || pct != 100 || done != int64(len(payload)) {
		t.Fatalf("upload progress pct=%v done=%d calls=%d; want a final 100%% report", pct, done, n)
	}
	if pct, done, n := down.last(); n == 0 || pct != 100 || done != 11 {
		t.Fatalf("download progress pct=%v done=%d calls=%d; want a final 100%% report", pct, done, n)
	}
}

func Test_HTTPClient_ServiceHeaders_golden(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	netCfg := config.DefaultNetSvcConfig()
	netCfg.WithUserAgent("rxnet-test").
		WithExtraHeaders(dto.ExtraHeaders{"X-Tenant": "acme", "X-Override": "service"})
	cfg := DefaultHTTPClientConfig()
	c := NewHTTPClient("test", &netCfg, &cfg)

	reqCfg := DefaultHTTPRequestConfig()
	reqCfg.WithURL(srv.URL).WithHeaders(map[string]string{"X-Override": "request"})

	if _, err := c.ProcessRequest(context.Background(), &dto.RequestConfig{ReqConfig: &reqCfg}); err != nil {
		t.Fatalf("ProcessRequest error: %v", err)
	}
	if got.Get("User-Agent") != "rxnet-test" {
		t.Fatalf("User-Agent=%q", got.Get("User-Agent"))
	}
	if got.Get("X-Tenant") != "acme" || got.Get("X-Override") != "request" {
		t.Fatalf("headers=%v; want service extras without overriding the request", got)
	}
}

func Test_HTTPClient_CancelledContext_golden(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	reqCfg := DefaultHTTPRequestConfig()
	reqCfg.WithURL(srv.URL)
	c := newTestClient(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.ProcessRequest(ctx, &dto.RequestConfig{ReqConfig: &reqCfg})
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("err=%v; want context canceled", err)
	}
}
