package resource

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader reads a stylesheet from the local filesystem. It is the default
// CSS loader and performs blocking I/O on the calling goroutine.
//
// rawURL is expected to be a local path. Relative paths are resolved against
// baseURL when baseURL names a local file or directory. A file that cannot be
// read yields an empty stylesheet.
func FileLoader(rawURL, baseURL string) string {
	if rawURL == "" {
		return ""
	}
	path := ResolvePath(baseURL, rawURL)
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to open file", "component", "resource", "path", path, "err", err)
		return ""
	}
	return string(data)
}

// IsNetworkURL reports whether ref uses an http or https scheme.
func IsNetworkURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ResolveURL resolves a possibly-relative reference against a base URL.
// If either side fails to parse, ref is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// ResolvePath turns a reference found in a document into a local path.
//
// file:// URLs are stripped to their path. Absolute paths and references
// without a usable local base are returned unchanged. Otherwise ref is joined
// to base, or to base's directory when base names a file.
func ResolvePath(base, ref string) string {
	if strings.HasPrefix(ref, "file://") {
		return strings.TrimPrefix(ref, "file://")
	}
	if filepath.IsAbs(ref) || base == "" || IsNetworkURL(base) || IsNetworkURL(ref) {
		return ref
	}
	base = strings.TrimPrefix(base, "file://")
	dir := base
	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		if strings.HasSuffix(base, "/") {
			dir = base
		} else {
			dir = filepath.Dir(base)
		}
	}
	return filepath.Join(dir, ref)
}
