// Package resource implements the Resource Resolver and Alias Mapper
// (spec.md §4.1-4.2): it maps a logical import/ref name to an absolute
// URL and fetches the bytes at that URL, the way the teacher's
// config.FileSource reads a single configured path, generalized to the
// DSL's http:/ftp:/file:/context-relative/base-url resolution chain.
package resource

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var schemes = []string{"http:", "ftp:", "file:"}

// Resolver resolves logical resource names to absolute URLs and fetches
// their contents. It owns no mutable state beyond its construction-time
// configuration, matching the "ambient state" design note in spec.md §9.
type Resolver struct {
	// BaseURL is the final fallback prefix, used when neither a local
	// file nor a context-relative candidate exists.
	BaseURL string

	// HTTPClient is used for http:/https:/ftp: probes and fetches.
	// NewResolver sets a client with a 30-second timeout; when nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client
}

// NewResolver builds a Resolver with the given base URL fallback.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve implements the resolution chain from spec.md §4.1:
//  1. pass-through for http:/ftp:/file:
//  2. local-filesystem existence probe
//  3. context-relative join against contextURL, probed for existence
//  4. BaseURL fallback
//  5. otherwise not found
func (r *Resolver) Resolve(name, contextURL string) (string, bool) {
	if hasKnownScheme(name) {
		return name, true
	}

	if fileExists(name) {
		return fileURL(name), true
	}

	if contextURL != "" {
		candidate := joinContext(contextURL, name)
		if r.probe(candidate) {
			return candidate, true
		}
	}

	if r.BaseURL != "" {
		return r.BaseURL + name, true
	}

	return "", false
}

func hasKnownScheme(name string) bool {
	for _, s := range schemes {
		if strings.HasPrefix(name, s) {
			return true
		}
	}
	return false
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

func joinContext(contextURL, name string) string {
	idx := strings.LastIndex(contextURL, "/")
	if idx < 0 {
		return name
	}
	return contextURL[:idx+1] + name
}

// probe attempts a byte read of the candidate URL. Failures are silent;
// the caller only observes whether the resource exists (spec.md §4.1
// "Probe policy").
func (r *Resolver) probe(rawURL string) bool {
	_, err := r.Fetch(rawURL)
	return err == nil
}

// Exists reports whether a byte read of rawURL succeeds, the same probe
// Resolve uses for context-relative candidates, exposed for callers that
// need an existence check outside Resolve's chain.
func (r *Resolver) Exists(rawURL string) bool {
	return r.probe(rawURL)
}

// Fetch reads the full contents at a resolved URL. Supported schemes:
// file:, http:, https:, or a bare local path (treated as file:). ftp:
// URLs are handed to the HTTP client, which does not speak FTP, so
// fetching them returns an error.
func (r *Resolver) Fetch(rawURL string) ([]byte, error) {
	switch {
	case strings.HasPrefix(rawURL, "file:"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("resource: parse file url %q: %w", rawURL, err)
		}
		return os.ReadFile(filepath.FromSlash(u.Path))
	case strings.HasPrefix(rawURL, "http:") || strings.HasPrefix(rawURL, "https:") || strings.HasPrefix(rawURL, "ftp:"):
		client := r.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Get(rawURL)
		if err != nil {
			return nil, fmt.Errorf("resource: fetch %q: %w", rawURL, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("resource: fetch %q: status %d", rawURL, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	default:
		return os.ReadFile(rawURL)
	}
}
