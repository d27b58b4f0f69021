package upload

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grievance-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header plus IHDR chunk start; enough for type detection
var pngBytes = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x02, 0x00, 0x00, 0x00,
}

func newStore(t *testing.T, max int64) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir(), "http://portal.test/", max)
	require.NoError(t, err)
	return s
}

func TestSaveImage(t *testing.T) {
	s := newStore(t, 0)
	f, err := s.Save(context.Background(), "../../street light.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "street light.png", f.Filename)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, int64(len(pngBytes)), f.Size)
	assert.True(t, strings.HasPrefix(f.URL, "http://portal.test/uploads/"), f.URL)
	assert.True(t, strings.HasSuffix(f.URL, ".png"), f.URL)

	stored := filepath.Join(s.Dir(), strings.TrimPrefix(f.URL, "http://portal.test/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSaveIsContentAddressed(t *testing.T) {
	s := newStore(t, 0)
	a, err := s.Save(context.Background(), "a.txt", strings.NewReader("pothole on 5th avenue"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "b.txt", strings.NewReader("pothole on 5th avenue"))
	require.NoError(t, err)
	assert.Equal(t, a.URL, b.URL)
	assert.Equal(t, "b.txt", b.Filename)
}

func TestSaveRejects(t *testing.T) {
	s := newStore(t, 64)
	ctx := context.Background()
	var ve *models.ValidationError

	_, err := s.Save(ctx, "empty.txt", strings.NewReader(""))
	assert.True(t, errors.As(err, &ve), "empty")

	_, err = s.Save(ctx, "big.txt", strings.NewReader(strings.Repeat("x", 65)))
	assert.True(t, errors.As(err, &ve), "too large")

	_, err = s.Save(ctx, "run.exe", bytes.NewReader(append([]byte("MZ\x90\x00"), make([]byte, 40)...)))
	assert.True(t, errors.As(err, &ve), "executable")

	_, err = s.Save(ctx, "", strings.NewReader("hello"))
	assert.True(t, errors.As(err, &ve), "no name")

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsActiveContent(t *testing.T) {
	s := newStore(t, 0)
	ctx := context.Background()
	for name, body := range map[string]string{
		"page.html":  "<!DOCTYPE html><html><body><script>alert(document.cookie)</script></body></html>",
		"bare.html":  "<script>fetch('/api/auth/me')</script>",
		"icon.svg":   `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`,
		"feed.xml":   `<?xml version="1.0"?><note>hi</note>`,
		"script.js":  "#!/usr/bin/env node\nconsole.log(1)",
		"plain.html": "just words", // detected as text/plain, so accepted
	} {
		f, err := s.Save(ctx, name, strings.NewReader(body))
		if name == "plain.html" {
			require.NoError(t, err)
			assert.Equal(t, "text/plain; charset=utf-8", f.ContentType)
			assert.True(t, strings.HasSuffix(f.URL, ".txt"), f.URL)
			continue
		}
		var ve *models.ValidationError
		assert.True(t, errors.As(err, &ve), name)
	}
}

func TestNewDiskStoreRequiresDir(t *testing.T) {
	_, err := NewDiskStore(" ", "", 0)
	assert.Error(t, err)
}
