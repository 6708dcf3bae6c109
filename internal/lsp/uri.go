package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath maps file URIs to absolute paths. Other schemes map to "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" && parsed.Scheme != "file" {
		return ""
	}
	path := parsed.Path
	if parsed.Scheme == "" {
		path = uri
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// canonicalURI normalizes file URIs so every spelling of a path maps to
// one document. Non-file URIs are returned unchanged.
func canonicalURI(uri string) string {
	if path := uriToPath(uri); path != "" {
		return pathToURI(path)
	}
	return uri
}

// documentPath is the FileSet name of uri.
func documentPath(uri string) string {
	if path := uriToPath(uri); path != "" {
		return filepath.ToSlash(path)
	}
	return uri
}

// PathFromURI returns the file system path of a file URI, or "" for other schemes.
func PathFromURI(uri string) string { return uriToPath(uri) }
