package scene

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ImageFormat is a texture export format.
type ImageFormat string

const (
	FormatPNG ImageFormat = "png"
	FormatBMP ImageFormat = "bmp"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseImageFormat parses "png" or "bmp".
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(s)); f {
	case FormatPNG, FormatBMP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Image wraps the texture's pixels without copying them.
func (t *TextureRecord) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// Encode writes the texture to w in format f.
func (t *TextureRecord) Encode(w io.Writer, f ImageFormat) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, t.Image())
	case FormatBMP:
		return bmp.Encode(w, t.Image())
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// FileName returns a file name for the texture, safe for any file system.
func (t *TextureRecord) FileName(f ImageFormat) string {
	base := t.Name
	if base == "" {
		base = fmt.Sprintf("texture_%d_%d", t.FileIndex, t.NativeIndex)
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, base)
	return base + "." + string(f)
}

// ExportTextures writes every texture of set into dir and returns the
// paths written.
func ExportTextures(set *TextureSet, dir string, f ImageFormat) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for i := 0; i < set.Len(); i++ {
		tex := set.At(i)
		path := filepath.Join(dir, tex.FileName(f))
		if err := writeTexture(path, tex, f); err != nil {
			return written, fmt.Errorf("exporting %s: %w", tex.Key, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeTexture(path string, tex *TextureRecord, f ImageFormat) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tex.Encode(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
