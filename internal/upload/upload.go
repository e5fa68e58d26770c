// Package upload accepts images from the admin editor as base64 data URLs,
// checks them and hands them to the image CDN.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidDataURL = errors.New("upload: file is not a base64 data URL")
	ErrNotImage       = errors.New("upload: file is not a supported image")
	ErrTooLarge       = errors.New("upload: file too large")
)

// AllowedTypes are the image formats the site can display.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/avif"}

// Request is the body of an upload call.
type Request struct {
	File     string `json:"file"`
	FileName string `json:"fileName"`
}

// Result carries the public URL of a stored image.
type Result struct {
	URL string `json:"url"`
}

// Uploader stores one object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Service validates uploads before passing them to an Uploader.
type Service struct {
	store    Uploader
	maxBytes int64
}

func NewService(store Uploader, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes}
}

// Upload decodes req.File, sniffs its real type and stores it under a
// fresh name.  The client's file name only contributes its stem.
func (s *Service) Upload(ctx context.Context, req Request) (Result, error) {
	data, err := DecodeDataURL(req.File)
	if err != nil {
		return Result{}, err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Result{}, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), s.maxBytes)
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), AllowedTypes...) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	url, err := s.store.Upload(ctx, ObjectName(req.FileName, mt.Extension()), mt.String(), data)
	if err != nil {
		return Result{}, err
	}
	return Result{URL: url}, nil
}

// DecodeDataURL returns the bytes of a "data:<mime>;base64,<payload>" URL.
// The declared mime type is ignored; content is sniffed instead.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") || payload == "" {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, nil
}

// ObjectName builds "tours/<stem>-<uuid><ext>" with a slugged stem.
func ObjectName(fileName, ext string) string {
	stem := strings.TrimSuffix(path.Base(strings.ReplaceAll(fileName, "\\", "/")), path.Ext(fileName))
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	if slug == "" {
		slug = "image"
	}
	return "tours/" + slug + "-" + uuid.NewString() + ext
}
