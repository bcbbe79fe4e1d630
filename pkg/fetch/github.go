package fetch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/rgpatch/pkg/errors"
	"github.com/arthur-debert/rgpatch/pkg/types"
)

// treeEntry is one record from the GitHub contents API.
type treeEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// treeFile is a file selected for download, with its path relative to the
// requested tree root.
type treeFile struct {
	Rel string
	URL string
}

// ParseRepo extracts "owner/repo" from a GitHub repository URL.
func ParseRepo(source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid repository URL %q", source)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "repository URL %q has no owner/repo", source)
	}
	return parts[0] + "/" + parts[1], nil
}

// FetchTree enumerates the repository tree under spec.GithubPath, filters
// it through the spec's ignore patterns, and downloads every surviving
// file under spec.Destination preserving relative paths.
func (c *Client) FetchTree(spec types.FileSpec) error {
	if err := c.CheckNetwork(); err != nil {
		return err
	}

	repo, err := ParseRepo(spec.Source)
	if err != nil {
		return err
	}

	filter, err := parseIgnore(spec.Ignore)
	if err != nil {
		return err
	}

	files, err := c.listTree(repo, spec.GithubPath)
	if err != nil {
		return err
	}

	kept := 0
	for _, f := range files {
		if filter.Skip(f.Rel) {
			c.logger.Debug().Str("path", f.Rel).Msg("skipped by ignore patterns")
			continue
		}
		kept++

		dest := filepath.Join(spec.Destination, filepath.FromSlash(f.Rel))
		if c.dryRun {
			c.logger.Info().Str("url", f.URL).Str("dest", dest).Msg("would download file")
			continue
		}
		if err := c.download(f.URL, dest); err != nil {
			return err
		}
	}

	c.logger.Info().
		Str("repo", repo).
		Str("path", spec.GithubPath).
		Int("files", kept).
		Int("skipped", len(files)-kept).
		Msg("tree fetch resolved")
	return nil
}

// listTree walks the remote directory tree with an explicit worklist of
// pending directories, so depth is bounded deterministically regardless of
// how the repository nests.
func (c *Client) listTree(repo, root string) ([]treeFile, error) {
	var files []treeFile
	pending := []string{root}

	for len(pending) > 0 {
		dir := pending[0]
		pending = pending[1:]

		entries, err := c.listDir(repo, dir)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			switch entry.Type {
			case "dir":
				pending = append(pending, entry.Path)
			case "file":
				rel := strings.TrimPrefix(entry.Path, root)
				rel = strings.TrimPrefix(rel, "/")
				files = append(files, treeFile{Rel: rel, URL: entry.DownloadURL})
			default:
				// Symlinks and submodules have no raw content to fetch.
				c.logger.Debug().Str("path", entry.Path).Str("type", entry.Type).Msg("ignoring tree entry")
			}
		}
	}

	return files, nil
}

// listDir fetches one directory listing from the contents API.
func (c *Client) listDir(repo, dir string) ([]treeEntry, error) {
	listURL := fmt.Sprintf("%s/repos/%s/contents/%s", c.cfg.Github.APIBase, repo, dir)

	resp, err := c.http.Get(listURL)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFetchFailed, "failed to list %s", listURL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.ErrBadStatus, "listing %s returned HTTP %d", listURL, resp.StatusCode)
	}

	var entries []treeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFetchFailed, "failed to decode listing of %s", listURL)
	}
	return entries, nil
}
