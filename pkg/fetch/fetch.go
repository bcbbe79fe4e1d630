// Package fetch resolves the assets a patch needs: single files from local
// paths or URLs, and whole directory trees from the GitHub contents API.
//
// The resolver has a dry-run form used by the validate and dry-run modes:
// all read-only work (existence checks, the network probe, tree
// enumeration) still happens, but nothing is written to disk and no
// response bodies are transferred. Structural failures (missing local
// source, unreachable network) surface identically in both forms.
package fetch

import (
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rgpatch/pkg/config"
	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/logging"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// HTTPClient is the single-method surface the resolver needs, so tests can
// substitute an httptest-backed double.
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

// Client resolves patch assets.
type Client struct {
	fs     types.FS
	http   HTTPClient
	cfg    *config.Config
	dryRun bool
	probe  Probe
	logger zerolog.Logger
}

// NewClient creates a resolver. dryRun selects the side-effect-free form.
func NewClient(fs types.FS, cfg *config.Config, dryRun bool) *Client {
	return &Client{
		fs:     fs,
		http:   &http.Client{Timeout: cfg.Network.HTTPTimeout()},
		cfg:    cfg,
		dryRun: dryRun,
		probe:  dialProbe,
		logger: logging.GetLogger("fetch"),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client HTTPClient) {
	c.http = client
}

// SetProbe sets a custom network reachability probe (useful for testing).
func (c *Client) SetProbe(p Probe) {
	c.probe = p
}

// IsURL reports whether source names a remote asset rather than a local
// path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// IsRepoURL reports whether source points at a GitHub repository page (as
// opposed to a direct raw-content or release-asset link). Repository URLs
// are resolved through the contents API as directory trees.
func IsRepoURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if host != "github.com" {
		return false
	}
	// Release assets and /raw/ links download directly.
	if strings.Contains(u.Path, "/releases/download/") || strings.Contains(u.Path, "/raw/") {
		return false
	}
	return true
}

// FetchFile resolves a single FileSpec: a local copy (or move), or a URL
// download streamed into the destination directory under the URL's last
// path segment.
func (c *Client) FetchFile(spec types.FileSpec) error {
	if IsURL(spec.Source) {
		return c.fetchRemote(spec)
	}
	return c.fetchLocal(spec)
}

func (c *Client) fetchLocal(spec types.FileSpec) error {
	if _, err := c.fs.Stat(spec.Source); err != nil {
		return errors.Wrapf(err, errors.ErrMissingSource, "source file not found: %s", spec.Source)
	}

	dest := filepath.Join(spec.Destination, filepath.Base(spec.Source))
	if c.dryRun {
		c.logger.Info().
			Str("source", spec.Source).
			Str("dest", dest).
			Bool("move", spec.Move).
			Msg("would copy local file")
		return nil
	}

	if err := c.fs.MkdirAll(spec.Destination, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", spec.Destination)
	}

	// Stream the copy; sources can be firmware-image sized.
	src, err := c.fs.Open(spec.Source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetchFailed, "failed to read %s", spec.Source)
	}
	defer func() { _ = src.Close() }()

	out, err := c.fs.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", dest)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dest)
	}

	if spec.Move {
		if err := c.fs.Remove(spec.Source); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove moved source %s", spec.Source)
		}
	}

	c.logger.Info().Str("source", spec.Source).Str("dest", dest).Msg("copied local file")
	return nil
}

func (c *Client) fetchRemote(spec types.FileSpec) error {
	if err := c.CheckNetwork(); err != nil {
		return err
	}

	name := path.Base(strings.TrimSuffix(spec.Source, "/"))
	dest := filepath.Join(spec.Destination, name)

	if c.dryRun {
		c.logger.Info().
			Str("url", spec.Source).
			Str("dest", dest).
			Msg("would download file")
		return nil
	}

	return c.download(spec.Source, dest)
}

// download performs one GET and streams the body into dest, creating the
// destination directory as needed.
func (c *Client) download(srcURL, dest string) error {
	resp, err := c.http.Get(srcURL)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFetchFailed, "failed to download %s", srcURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.ErrBadStatus, "download of %s returned HTTP %d", srcURL, resp.StatusCode)
	}

	if err := c.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dest))
	}

	f, err := c.fs.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", dest)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dest)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dest)
	}

	c.logger.Info().Str("url", srcURL).Str("dest", dest).Msg("downloaded file")
	return nil
}
