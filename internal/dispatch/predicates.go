package dispatch

import (
	"path"
	"strings"
)

// DefaultStaticExtensions returns the file extensions, without the leading
// dot, that are served from the document root without asking the application
func DefaultStaticExtensions() []string {
	return []string{
		"css", "js", "png", "jpg", "jpeg", "gif", "svg", "ico",
		"woff", "woff2", "ttf", "eot", "map", "json",
	}
}

// ExtensionSet is a set of lower case file extensions without the leading dot
type ExtensionSet map[string]struct{}

// NewExtensionSet builds an ExtensionSet. Extensions are matched case
// insensitively and may be given with or without a leading dot.
func NewExtensionSet(extensions []string) ExtensionSet {
	set := make(ExtensionSet, len(extensions))

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}

	return set
}

// Contains reports whether ext, with or without a leading dot, is in the set
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// StripQuery drops the query string, if any, from p
func StripQuery(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		return p[:i]
	}

	return p
}

// IsStaticExtension reports whether p names a file with an extension from
// set. A trailing query string is ignored.
func IsStaticExtension(p string, set ExtensionSet) bool {
	return hasStaticExtension(StripQuery(p), set)
}

func hasStaticExtension(urlPath string, set ExtensionSet) bool {
	ext := path.Ext(urlPath)
	if ext == "" {
		return false
	}

	return set.Contains(ext)
}

// IsAdminPath reports whether p is prefix itself or lies below it. A
// trailing query string is ignored and the path is cleaned first, so with
// prefix "/admin" "/admin?tab=users", "/admin/courses" and "//admin" match
// but "/administrator" does not.
func IsAdminPath(p, prefix string) bool {
	return inAdminSection(CleanPath(StripQuery(p)), prefix)
}

// CleanPath collapses repeated slashes and dot segments of an absolute URL
// path. Other paths are returned unchanged.
func CleanPath(urlPath string) string {
	if !strings.HasPrefix(urlPath, "/") {
		return urlPath
	}

	return path.Clean(urlPath)
}

func inAdminSection(urlPath, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return false
	}

	return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
}
