// Package attachment turns image files into the data URLs sent with a question.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotImage is returned for files whose content is not an image.
var ErrNotImage = errors.New("file is not an image")

// Upload is an encoded image: LocalURL is shown on the user message and
// DataURL is sent to the backend.
type Upload struct {
	Path     string
	MIMEType string
	LocalURL string
	DataURL  string
}

// Load reads an image file and encodes it.
func Load(path string) (Upload, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Upload{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Upload{}, fmt.Errorf("read image: %w", err)
	}
	return Encode(abs, data)
}

// Encode builds an Upload from raw bytes. The MIME type is sniffed from the
// content; the extension is ignored.
func Encode(path string, data []byte) (Upload, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Upload{}, fmt.Errorf("%s (%s): %w", filepath.Base(path), mime, ErrNotImage)
	}
	return Upload{
		Path:     path,
		MIMEType: mime,
		LocalURL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(),
		DataURL:  DataURL(mime, data),
	}, nil
}

// LoadAll loads every path, stopping at the first failure.
func LoadAll(paths []string) ([]Upload, error) {
	out := make([]Upload, 0, len(paths))
	for _, p := range paths {
		u, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// LocalURLs returns the local URLs of uploads in order.
func LocalURLs(uploads []Upload) []string {
	out := make([]string, len(uploads))
	for i, u := range uploads {
		out[i] = u.LocalURL
	}
	return out
}

// DataURLs returns the data URLs of uploads in order.
func DataURLs(uploads []Upload) []string {
	out := make([]string, len(uploads))
	for i, u := range uploads {
		out[i] = u.DataURL
	}
	return out
}
