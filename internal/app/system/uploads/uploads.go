// Package uploads validates and stores user file uploads (documents, CVs).
//
// Limits are an explicit Policy constructed at startup from configuration
// and passed to the feature handlers; nothing reads ambient globals.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// DefaultMaxSize is the upload size cap applied when no limit is configured.
const DefaultMaxSize = 10 << 20 // 10 MiB

// DefaultAllowedExtensions is the filename extension allow-list.
var DefaultAllowedExtensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".doc", ".docx"}

// DefaultAllowedContentTypes is the declared content-type allow-list. The
// content-type check is skipped when the browser did not declare one.
var DefaultAllowedContentTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Policy holds the recognized upload limits.
type Policy struct {
	MaxSize             int64
	AllowedContentTypes map[string]struct{}
	AllowedExtensions   map[string]struct{}
}

// NewPolicy builds a Policy, applying defaults for zero values.
func NewPolicy(maxSize int64, contentTypes, extensions []string) Policy {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(contentTypes) == 0 {
		contentTypes = DefaultAllowedContentTypes
	}
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}

	p := Policy{
		MaxSize:             maxSize,
		AllowedContentTypes: make(map[string]struct{}, len(contentTypes)),
		AllowedExtensions:   make(map[string]struct{}, len(extensions)),
	}
	for _, ct := range contentTypes {
		p.AllowedContentTypes[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	for _, ext := range extensions {
		p.AllowedExtensions[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}
	return p
}

// Validate checks a submitted file against the policy. The returned error
// message is user-facing and is surfaced as a field-level form error; a nil
// return means the file may be stored.
//
// contentType may be empty (some browsers/storages omit it); the declared
// content-type check is skipped in that case, the extension check is not.
func (p Policy) Validate(filename string, size int64, contentType string) error {
	if size > p.MaxSize {
		return fmt.Errorf("File too large. Max size is %d MB.", p.MaxSize>>20)
	}

	if contentType != "" {
		ct := strings.ToLower(strings.TrimSpace(contentType))
		// Strip parameters like "; charset=utf-8".
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = strings.TrimSpace(ct[:i])
		}
		if _, ok := p.AllowedContentTypes[ct]; !ok {
			return fmt.Errorf("Unsupported file type.")
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := p.AllowedExtensions[ext]; !ok {
		return fmt.Errorf("Unsupported file extension.")
	}
	return nil
}

// Info describes a stored upload.
type Info struct {
	Path string
	Size int64
}

// Save stores an upload under a kind-keyed, date-partitioned, uuid-named
// path (e.g. "documents/2026/08/1a2b3c4d.pdf") and returns its storage path.
func Save(ctx context.Context, store storage.Store, kind, filename string, reader io.Reader, size int64, contentType string) (Info, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", kind, now.Year(), now.Month())
	ext := filepath.Ext(filename)
	uniqueName := fmt.Sprintf("%s%s", uuid.New().String()[:8], ext)
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := store.Put(ctx, path, reader, opts); err != nil {
		return Info{}, fmt.Errorf("failed to store upload: %w", err)
	}
	return Info{Path: path, Size: size}, nil
}
