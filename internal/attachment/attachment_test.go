package attachment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestEncode(t *testing.T) {
	t.Run("png becomes a data url", func(t *testing.T) {
		u, err := Encode("/tmp/leaf.png", pngHeader)
		if err != nil {
			t.Fatal(err)
		}
		if u.MIMEType != "image/png" {
			t.Errorf("MIMEType = %q, want %q", u.MIMEType, "image/png")
		}
		if !strings.HasPrefix(u.DataURL, "data:image/png;base64,") {
			t.Errorf("DataURL = %q", u.DataURL)
		}
		if u.LocalURL != "file:///tmp/leaf.png" {
			t.Errorf("LocalURL = %q, want %q", u.LocalURL, "file:///tmp/leaf.png")
		}
	})

	t.Run("text is rejected", func(t *testing.T) {
		_, err := Encode("/tmp/notes.png", []byte("just some notes"))
		if !errors.Is(err, ErrNotImage) {
			t.Errorf("error = %v, want ErrNotImage", err)
		}
	})
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, pngHeader, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	uploads, err := LoadAll([]string{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(uploads) != 2 {
		t.Fatalf("len = %d, want 2", len(uploads))
	}
	if got := LocalURLs(uploads); !strings.HasSuffix(got[1], "/b.png") {
		t.Errorf("LocalURLs() = %v", got)
	}
	if got := DataURLs(uploads); got[0] != uploads[0].DataURL {
		t.Errorf("DataURLs() = %v", got)
	}

	if _, err := LoadAll([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDataURL(t *testing.T) {
	if got := DataURL("image/jpeg", []byte("hi")); got != "data:image/jpeg;base64,aGk=" {
		t.Errorf("DataURL() = %q", got)
	}
}
