// Package upload stores grievance attachments on disk, addressed by content hash.
package upload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"grievance-portal/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes int64 = 10 << 20

// Allowed lists accepted detected types. Entries ending in "/" match a whole family.
var Allowed = []string{
	"image/",
	"text/",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Denied types render as active content in a browser. A detected type is
// rejected when it or any of its parents is listed, so SVG falls out via XML.
var Denied = []string{
	"text/html",
	"application/xhtml+xml",
	"image/svg+xml",
	"text/xml",
	"application/xml",
	"text/javascript",
	"application/javascript",
	"application/x-javascript",
}

type DiskStore struct {
	dir      string
	baseURL  string
	maxBytes int64
}

// NewDiskStore creates dir if needed. Files are published under baseURL + "/uploads/".
func NewDiskStore(dir, baseURL string, maxBytes int64) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &DiskStore{dir: filepath.Clean(dir), baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) MaxBytes() int64 { return s.maxBytes }

// Save validates size and detected content type, then writes the bytes under
// their sha256. Saving identical content twice yields the same URL.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (*models.UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, models.Invalid("file", "filename is required")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, models.Invalid("file", "is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, models.Invalid("file", fmt.Sprintf("%s exceeds %d MB limit", name, s.maxBytes>>20))
	}

	mt := mimetype.Detect(data)
	if !allowed(mt) {
		return nil, models.Invalid("file", fmt.Sprintf("type %s is not accepted", mt.String()))
	}

	sum := sha256.Sum256(data)
	stored := hex.EncodeToString(sum[:]) + mt.Extension()
	dst := filepath.Join(s.dir, stored)
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		if err := writeAtomic(s.dir, dst, data); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return &models.UploadedFile{
		Filename:    name,
		URL:         s.baseURL + "/uploads/" + stored,
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}, nil
}

func allowed(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, d := range Denied {
			if m.Is(d) {
				return false
			}
		}
	}
	for m := mt; m != nil; m = m.Parent() {
		base, _, _ := strings.Cut(m.String(), ";")
		for _, a := range Allowed {
			if base == a || (strings.HasSuffix(a, "/") && strings.HasPrefix(base, a)) {
				return true
			}
		}
	}
	return false
}

func writeAtomic(dir, dst string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
