// Package storage keeps uploaded sauce images on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/piiquante/sauce-service/internal/config"
)

var (
	ErrUnsupportedImage = errors.New("image must be jpg, png or webp")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageStore writes images under a directory served at PublicPath.
type ImageStore struct {
	dir        string
	publicPath string
	maxSize    int64
	now        func() time.Time
}

// NewImageStore creates the upload directory if needed.
func NewImageStore(cfg config.UploadConfig) (*ImageStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{
		dir:        cfg.Dir,
		publicPath: "/" + strings.Trim(cfg.PublicPath, "/"),
		maxSize:    cfg.MaxSizeBytes,
		now:        time.Now,
	}, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// PublicPath returns the URL prefix images are served under.
func (s *ImageStore) PublicPath() string {
	return s.publicPath
}

// Save sniffs the content type, writes the file and returns the public URL
// rooted at baseURL (scheme and host of the incoming request).
func (s *ImageStore) Save(baseURL, originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrImageTooLarge
	}

	ext, ok := allowedTypes[mimetype.Detect(data).String()]
	if !ok {
		return "", ErrUnsupportedImage
	}

	name := s.fileName(originalName, ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return strings.TrimRight(baseURL, "/") + s.publicPath + "/" + name, nil
}

// Delete removes the file behind an image URL. Unknown or missing files are ignored.
func (s *ImageStore) Delete(imageURL string) error {
	name := s.fileFromURL(imageURL)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *ImageStore) fileFromURL(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	dir, name := path.Split(parsed.Path)
	if strings.TrimRight(dir, "/") != s.publicPath || name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// fileName keeps the client's base name with spaces as underscores, then a
// millisecond timestamp and a short random suffix.
func (s *ImageStore) fileName(originalName, ext string) string {
	base := filepath.Base(originalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.Fields(base), "_")
	base = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = "image"
	}

	return fmt.Sprintf("%s%d-%s.%s", base, s.now().UnixMilli(), uuid.NewString()[:8], ext)
}
