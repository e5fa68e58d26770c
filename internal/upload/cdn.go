package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"time"
)

// ErrNotConfigured is returned when no CDN endpoint is set.
var ErrNotConfigured = errors.New("upload: image CDN not configured")

// CDNUploader posts images to an image CDN as multipart form data.  The
// CDN answers with {"url": ...} or {"data": {"url": ...}}.
type CDNUploader struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewCDNUploader(endpoint, apiKey string) *CDNUploader {
	return &CDNUploader{endpoint: endpoint, apiKey: apiKey, http: &http.Client{Timeout: 30 * time.Second}}
}

type cdnResponse struct {
	URL  string `json:"url"`
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Error string `json:"error"`
}

func (u *CDNUploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if u.endpoint == "" {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, path.Base(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.WriteField("key", name); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: cdn request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var out cdnResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out.Error != "" {
			return "", fmt.Errorf("upload: cdn status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("upload: cdn status %d", resp.StatusCode)
	}
	if out.URL != "" {
		return out.URL, nil
	}
	if out.Data.URL != "" {
		return out.Data.URL, nil
	}
	return "", errors.New("upload: cdn response has no url")
}
