package fetch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/filesystem"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

func newTestClient(t *testing.T, fs types.FS, dryRun bool) *Client {
	t.Helper()
	c := NewClient(fs, config.Default(), dryRun)
	c.SetProbe(func(address string, timeout time.Duration) error { return nil })
	return c
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/file.zip"))
	assert.True(t, IsURL("http://example.com/file.zip"))
	assert.False(t, IsURL("/mnt/mmc/file.zip"))
	assert.False(t, IsURL("./relative/file.zip"))
	assert.False(t, IsURL("ftp://example.com/file.zip"))
}

func TestIsRepoURL(t *testing.T) {
	assert.True(t, IsRepoURL("https://github.com/owner/repo"))
	assert.True(t, IsRepoURL("https://www.github.com/owner/repo"))
	assert.False(t, IsRepoURL("https://example.com/owner/repo"))
	assert.False(t, IsRepoURL("https://github.com/owner/repo/releases/download/v1/pkg.zip"))
	assert.False(t, IsRepoURL("https://github.com/owner/repo/raw/main/file.txt"))
}

func TestFetchFileLocalCopy(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/src/data.bin", []byte("payload"), 0644))

	c := newTestClient(t, fs, false)
	err := c.FetchFile(types.FileSpec{Source: "/src/data.bin", Destination: "/dest"})
	require.NoError(t, err)

	data, err := fs.ReadFile("/dest/data.bin")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	// Source remains without move.
	_, err = fs.Stat("/src/data.bin")
	assert.NoError(t, err)
}

func TestFetchFileLocalMove(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/src/data.bin", []byte("payload"), 0644))

	c := newTestClient(t, fs, false)
	err := c.FetchFile(types.FileSpec{Source: "/src/data.bin", Destination: "/dest", Move: true})
	require.NoError(t, err)

	_, err = fs.Stat("/dest/data.bin")
	assert.NoError(t, err)
	_, err = fs.Stat("/src/data.bin")
	assert.Error(t, err)
}

func TestFetchFileMissingSource(t *testing.T) {
	fs := filesystem.NewMemoryFS()

	for _, dryRun := range []bool{false, true} {
		c := newTestClient(t, fs, dryRun)
		err := c.FetchFile(types.FileSpec{Source: "/src/absent.bin", Destination: "/dest"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMissingSource))
	}
}

func TestFetchFileLocalDryRunWritesNothing(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/src/data.bin", []byte("payload"), 0644))

	c := newTestClient(t, fs, true)
	err := c.FetchFile(types.FileSpec{Source: "/src/data.bin", Destination: "/dest", Move: true})
	require.NoError(t, err)

	_, err = fs.Stat("/dest/data.bin")
	assert.Error(t, err)
	// Dry-run never consumes the source either.
	_, err = fs.Stat("/src/data.bin")
	assert.NoError(t, err)
}

func TestFetchFileDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "remote content")
	}))
	defer server.Close()

	fs := filesystem.NewMemoryFS()
	c := newTestClient(t, fs, false)

	err := c.FetchFile(types.FileSpec{Source: server.URL + "/files/asset.bin", Destination: "/downloads"})
	require.NoError(t, err)

	data, err := fs.ReadFile("/downloads/asset.bin")
	require.NoError(t, err)
	assert.Equal(t, "remote content", string(data))
}

func TestFetchFileDownloadBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fs := filesystem.NewMemoryFS()
	c := newTestClient(t, fs, false)

	err := c.FetchFile(types.FileSpec{Source: server.URL + "/gone.bin", Destination: "/downloads"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBadStatus))
}

func TestFetchFileDownloadDryRun(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	c := newTestClient(t, fs, true)
	c.SetHTTPClient(&failingHTTPClient{})

	// Dry-run probes the network but never issues the GET.
	err := c.FetchFile(types.FileSpec{Source: "https://example.com/asset.bin", Destination: "/downloads"})
	require.NoError(t, err)

	_, err = fs.Stat("/downloads/asset.bin")
	assert.Error(t, err)
}

func TestCheckNetworkFailure(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	c := NewClient(fs, config.Default(), false)
	c.SetProbe(func(address string, timeout time.Duration) error {
		return fmt.Errorf("connection refused")
	})

	err := c.FetchFile(types.FileSpec{Source: "https://example.com/asset.bin", Destination: "/downloads"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoNetwork))
	assert.Contains(t, err.Error(), "No Network")
}

type failingHTTPClient struct{}

func (f *failingHTTPClient) Get(url string) (*http.Response, error) {
	return nil, fmt.Errorf("unexpected HTTP request to %s", url)
}
