package anim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFetcher_ReadsRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hazard.gif"), []byte("payload"), 0o644))

	f := &FileFetcher{Root: dir}
	data, err := f.Fetch(context.Background(), "hazard.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestFileFetcher_MissingFile(t *testing.T) {
	f := &FileFetcher{Root: t.TempDir()}
	_, err := f.Fetch(context.Background(), "nope.gif")
	assert.Error(t, err)
}

func TestHTTPFetcher_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("gifbytes"))
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client()}
	data, err := f.Fetch(context.Background(), srv.URL+"/anim.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("gifbytes"), data)
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := &HTTPFetcher{Client: srv.Client()}
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.gif")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &HTTPFetcher{Client: srv.Client()}
	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}

func TestResolverFetcher_DispatchesByScheme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.gif"), []byte("file"), 0o644))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("http"))
	}))
	defer srv.Close()

	f := &ResolverFetcher{
		HTTP: &HTTPFetcher{Client: srv.Client()},
		File: &FileFetcher{Root: dir},
	}

	data, err := f.Fetch(context.Background(), srv.URL+"/remote.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("http"), data)

	data, err = f.Fetch(context.Background(), "local.gif")
	require.NoError(t, err)
	assert.Equal(t, []byte("file"), data)
}
