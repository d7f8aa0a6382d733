package scanner

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/lyra/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCoverSize = 512

// coverNamespace scopes the content derived names of cover files
var coverNamespace = uuid.MustParse("6f0c4a52-3f4e-4a4b-9f57-1d0f3a2b8c11")

// CoverWriter stores embedded cover art as thumbnails in the cover cache
type CoverWriter struct {
	logger *zap.Logger
	dir    string
	size   int
}

// NewCoverWriter creates a writer storing thumbnails under the configured
// cover directory
func NewCoverWriter(logger *zap.Logger, cfg domain.Config) *CoverWriter {
	return &CoverWriter{
		logger: logger,
		dir:    cfg.GetCoverDir(),
		size:   defaultCoverSize,
	}
}

// Write scales the picture to fit the thumbnail size and saves it as JPEG.
// The file name is derived from the picture bytes, so a cover shared by
// every track of an album is written once. It returns the absolute path.
func (c *CoverWriter) Write(data []byte) (string, error) {
	name := uuid.NewSHA1(coverNamespace, data).String() + ".jpg"
	path := filepath.Join(c.dir, name)

	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("Cover already cached", zap.String("path", path))
		return absolute(path), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	// never upscale
	if bounds.Dx() > c.size || bounds.Dy() > c.size {
		img = imaging.Fit(img, c.size, c.size, imaging.Lanczos)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cover directory: %w", err)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("failed to write cover file: %w", err)
	}

	c.logger.Debug("Cover cached",
		zap.String("path", path),
		zap.Int("w", img.Bounds().Dx()),
		zap.Int("h", img.Bounds().Dy()))

	return absolute(path), nil
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
