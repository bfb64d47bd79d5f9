package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FormPart is one multipart field. A non-empty FilePath streams the file.
type FormPart struct {
	Name     string
	Value    string
	FilePath string
	FileName string
}

func PrepareBody(body map[string]interface{}, bodyType string) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	switch strings.ToLower(bodyType) {
	case "application/json":
		buf, err := json.Marshal(body)
		return buf, "application/json", err
	case "application/x-www-form-urlencoded":
		vals := url.Values{}
		for k, v := range body {
			vals.Set(k, fmt.Sprintf("%v", v))
		}
		return []byte(vals.Encode()), "application/x-www-form-urlencoded", nil
	case "multipart/form-data":
		parts := make([]FormPart, 0, len(body))
		for k, v := range body {
			parts = append(parts, FormPart{Name: k, Value: fmt.Sprintf("%v", v)})
		}
		return PrepareMultipart(parts)
	default:
		return nil, "", fmt.Errorf("unsupported body_type: %s", bodyType)
	}
}

// PrepareMultipart encodes parts in order and returns the body with its
// boundary-carrying content type.
func PrepareMultipart(parts []FormPart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.FilePath == "" {
			if err := w.WriteField(p.Name, p.Value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", p.Name, err)
			}
			continue
		}
		name := p.FileName
		if name == "" {
			name = filepath.Base(p.FilePath)
		}
		fw, err := w.CreateFormFile(p.Name, name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", p.Name, err)
		}
		f, err := os.Open(p.FilePath)
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", p.FilePath, err)
		}
		_, err = io.Copy(fw, f)
		f.Close()
		if err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", p.FilePath, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
