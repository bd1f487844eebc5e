// Package fetcher downloads remote pages with retry and rate limiting.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Get fetches the URL and returns the response body as bytes.
	Get(ctx context.Context, url string) ([]byte, error)
}
