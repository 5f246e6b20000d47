package anim

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher resolves an asset reference to its raw bytes. Injecting it keeps
// the player testable and collapses the old try-every-path loader fallback
// chains into one resolution strategy chosen at construction time.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches assets with a plain GET. No auth, no custom headers.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch performs the GET. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	return data, nil
}

// FileFetcher reads assets from disk, relative to Root ("." when empty).
type FileFetcher struct {
	Root string
}

// Fetch reads the file. The context is honoured only as an early-out check;
// local reads are not interruptible.
func (f *FileFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := f.Root
	if root == "" {
		root = "."
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(url)))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return data, nil
}

// ResolverFetcher dispatches on the URL scheme: http(s) goes to HTTP,
// everything else is treated as a file path.
type ResolverFetcher struct {
	HTTP Fetcher
	File Fetcher
}

// NewResolverFetcher builds the default resolver.
func NewResolverFetcher() *ResolverFetcher {
	return &ResolverFetcher{
		HTTP: &HTTPFetcher{},
		File: &FileFetcher{},
	}
}

// Fetch picks the backend by scheme and delegates.
func (f *ResolverFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return f.HTTP.Fetch(ctx, url)
	}
	return f.File.Fetch(ctx, url)
}
