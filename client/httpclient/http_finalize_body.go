package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/joy-dx/rxnet/utils"
)

// FinalizeBody prepares BodyBytes and ContentType exactly once per call.
// Rules:
// - If BodyBytes is already set, we respect it.
// - Uploads are streamed by openBody and skipped here.
// - Multipart fields win over Body when present.
// - Otherwise we build BodyBytes from Body+BodyType.
func (r *HTTPRequest) FinalizeBody() error {
	if r.BodyBytes != nil || r.Upload != nil {
		return nil
	}

	var (
		bodyBuf []byte
		ct      string
		err     error
	)
	if len(r.Multipart) > 0 {
		parts := append([]utils.FormPart(nil), r.Multipart...)
		for k, v := range r.Body {
			parts = append(parts, utils.FormPart{Name: k, Value: fmt.Sprintf("%v", v)})
		}
		bodyBuf, ct, err = utils.PrepareMultipart(parts)
	} else {
		bodyBuf, ct, err = utils.PrepareBody(r.Body, r.BodyType)
	}
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}

	r.BodyBytes = bodyBuf
	// Prefer explicit ContentType if some middleware set it.
	if r.ContentType == "" {
		r.ContentType = ct
	}
	return nil
}

// openBody returns the wire body and its length. Uploads open the file,
// which the caller must close through the returned closer.
func (r *HTTPRequest) openBody() (io.Reader, int64, io.Closer, error) {
	if r.Upload == nil {
		if r.BodyBytes == nil {
			return nil, 0, nil, nil
		}
		return bytes.NewReader(r.BodyBytes), int64(len(r.BodyBytes)), nil, nil
	}
	f, err := os.Open(r.Upload.FilePath)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open upload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, nil, fmt.Errorf("stat upload: %w", err)
	}
	if r.ContentType == "" {
		r.ContentType = r.Upload.ContentType
		if r.ContentType == "" {
			r.ContentType = "application/octet-stream"
		}
	}
	return f, info.Size(), f, nil
}
