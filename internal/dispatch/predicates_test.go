package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsStaticExtension(t *testing.T) {
	set := NewExtensionSet(DefaultStaticExtensions())

	tests := map[string]bool{
		"/css/app.css":            true,
		"/js/app.js":              true,
		"/images/logo.png?v=2":    true,
		"/STYLE.CSS":              true,
		"/fonts/inter.Woff2":      true,
		"/build/manifest.json":    true,
		"/js/app.js.map":          true,
		"/":                       false,
		"/courses":                false,
		"/courses/intro.php":      false,
		"/robots.txt":             false,
		"/css.d/":                 false,
		"/search?q=app.css":       false,
		"/images/logo.png/":       false,
		"/download?file=logo.png": false,
	}

	for p, expected := range tests {
		t.Run(p, func(t *testing.T) {
			require.Equal(t, expected, IsStaticExtension(p, set))
		})
	}
}

func TestIsAdminPath(t *testing.T) {
	tests := []struct {
		path     string
		prefix   string
		expected bool
	}{
		{path: "/admin", prefix: "/admin", expected: true},
		{path: "/admin/", prefix: "/admin", expected: true},
		{path: "/admin/dashboard", prefix: "/admin", expected: true},
		{path: "/admin/app.js", prefix: "/admin", expected: true},
		{path: "/admin?tab=users", prefix: "/admin", expected: true},
		{path: "/administrator", prefix: "/admin", expected: false},
		{path: "/courses/admin", prefix: "/admin", expected: false},
		{path: "/Admin", prefix: "/admin", expected: false},
		{path: "/", prefix: "/admin", expected: false},
		{path: "/backoffice/users", prefix: "/backoffice/", expected: true},
		{path: "/admin", prefix: "", expected: false},
		{path: "//admin/app.js", prefix: "/admin", expected: true},
		{path: "/./admin/", prefix: "/admin", expected: true},
		{path: "/images/../admin/app.js", prefix: "/admin", expected: true},
		{path: "/admin/../courses", prefix: "/admin", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+" "+tt.path, func(t *testing.T) {
			require.Equal(t, tt.expected, IsAdminPath(tt.path, tt.prefix))
		})
	}
}

func TestCleanPath(t *testing.T) {
	require.Equal(t, "/admin/app.js", CleanPath("//admin//app.js"))
	require.Equal(t, "/admin", CleanPath("/./admin/"))
	require.Equal(t, "/", CleanPath("/../.."))
	require.Equal(t, "style.css", CleanPath("style.css"))
	require.Equal(t, "", CleanPath(""))
}

func TestStripQuery(t *testing.T) {
	require.Equal(t, "/images/logo.png", StripQuery("/images/logo.png?v=2"))
	require.Equal(t, "/images/logo.png", StripQuery("/images/logo.png"))
	require.Equal(t, "/", StripQuery("/?a=b?c"))
	require.Equal(t, "", StripQuery("?q"))
}

func TestNewExtensionSet(t *testing.T) {
	set := NewExtensionSet([]string{".CSS", " js ", "", "."})

	require.Len(t, set, 2)
	require.True(t, set.Contains("css"))
	require.True(t, set.Contains(".Js"))
	require.False(t, set.Contains("png"))
}
