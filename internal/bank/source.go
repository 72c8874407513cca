package bank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned by a Source when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Source provides the raw manifest and per-stack documents of a data tree.
type Source interface {
	// Manifest returns the raw stack manifest document.
	Manifest(ctx context.Context) ([]byte, error)

	// Document returns the raw document of kind for stack, or ErrNotFound.
	Document(ctx context.Context, stack string, kind Kind) ([]byte, error)
}

// DirSource reads a data tree from a file system:
//
//	stack_manifest.yaml
//	<stack>/theory.yaml
//	<stack>/mcqs.yaml
type DirSource struct {
	fsys fs.FS
}

// NewDirSource creates a Source over fsys.
func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{fsys: fsys}
}

func (d *DirSource) Manifest(ctx context.Context) ([]byte, error) {
	return d.read(ctx, ManifestFile)
}

func (d *DirSource) Document(ctx context.Context, stack string, kind Kind) ([]byte, error) {
	return d.read(ctx, path.Join(stack, kind.FileName()))
}

func (d *DirSource) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource fetches a data tree served over HTTP, e.g. by `stackprep serve`.
// Requests are one-shot and never retried.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates a Source rooted at baseURL (e.g. "http://localhost:8080/data/").
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("data url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPSource{base: u, client: client}, nil
}

func (h *HTTPSource) Manifest(ctx context.Context) ([]byte, error) {
	return h.get(ctx, ManifestFile)
}

func (h *HTTPSource) Document(ctx context.Context, stack string, kind Kind) ([]byte, error) {
	return h.get(ctx, url.PathEscape(stack)+"/"+kind.FileName())
}

func (h *HTTPSource) get(ctx context.Context, rel string) ([]byte, error) {
	ref, err := url.Parse(rel)
	if err != nil {
		return nil, fmt.Errorf("build url for %s: %w", rel, err)
	}
	target := h.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return data, nil
}
