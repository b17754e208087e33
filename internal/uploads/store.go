// Package uploads stores profile images on local disk and serves them under URLPrefix.
package uploads

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Skotchmaster/userauth/internal/apperr"
)

const (
	URLPrefix = "/uploads/"
	MaxSide   = 512
	// decode limits, checked against the image header before any pixels are allocated
	MaxDecodeSide   = 10000
	MaxDecodePixels = 40_000_000
	field           = "photo"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type Store struct {
	Dir      string
	MaxBytes int64
}

func NewStore(dir string, maxBytes int64) *Store {
	return &Store{Dir: dir, MaxBytes: maxBytes}
}

// Save validates and normalizes the image read from r and returns its public URL.
// The original filename only contributes its extension.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperr.Invalid(field, "only jpg, jpeg, png and gif images are allowed")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return "", apperr.Invalid(field, fmt.Sprintf("file exceeds %d bytes", s.MaxBytes))
	}

	// the header is enough to refuse images whose pixel buffer would dwarf the upload
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", apperr.Invalid(field, "file is not a valid image")
	}
	if cfg.Width > MaxDecodeSide || cfg.Height > MaxDecodeSide || cfg.Width*cfg.Height > MaxDecodePixels {
		return "", apperr.Invalid(field, fmt.Sprintf("image dimensions %dx%d are too large", cfg.Width, cfg.Height))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.Invalid(field, "file is not a valid image")
	}
	if b := img.Bounds(); b.Dx() > MaxSide || b.Dy() > MaxSide {
		img = imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("image format: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(90)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	name := uuid.NewString() + ext
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return URLPrefix + name, nil
}

// IsStoredPath reports whether p names a file directly under URLPrefix.
func IsStoredPath(p string) bool {
	if !strings.HasPrefix(p, URLPrefix) {
		return false
	}
	name := strings.TrimPrefix(p, URLPrefix)
	return name != "" && path.Clean(p) == p && !strings.ContainsAny(name, `/\`)
}
