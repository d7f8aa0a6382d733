package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const _maxImageSize = 10 * 1024 * 1024 // 10 MB

// CoverStore keeps picture bytes in the local cover cache
type CoverStore interface {
	// Write stores the picture and returns its absolute path
	Write(data []byte) (string, error)
}

// ArtworkFetcher downloads the artwork players report over HTTP and keeps a
// local copy in the cover cache
type ArtworkFetcher struct {
	logger *zap.Logger
	client *http.Client
	covers CoverStore
}

// NewArtworkFetcher creates a fetcher storing pictures in covers
func NewArtworkFetcher(logger *zap.Logger, covers CoverStore) *ArtworkFetcher {
	return &ArtworkFetcher{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		covers: covers,
	}
}

// IsRemote reports whether artURL has to be downloaded
func IsRemote(artURL string) bool {
	return strings.HasPrefix(artURL, "http://") || strings.HasPrefix(artURL, "https://")
}

// Resolve returns a file URL for the artwork at artURL. Anything that is not
// an HTTP URL is returned unchanged.
func (f *ArtworkFetcher) Resolve(ctx context.Context, artURL string) (string, error) {
	if !IsRemote(artURL) {
		return artURL, nil
	}

	data, err := f.Fetch(ctx, artURL)
	if err != nil {
		return "", err
	}

	path, err := f.covers.Write(data)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: path}).String(), nil
}

// Fetch downloads image data from the given URL
func (f *ArtworkFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "lyra/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return nil, fmt.Errorf("url is not an image: %s", resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	f.logger.Debug("Artwork fetched", zap.Int("bytes", len(data)), zap.String("url", url))
	return data, nil
}
