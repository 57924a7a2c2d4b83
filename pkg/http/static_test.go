package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notFound = http.NotFoundHandler()

func writeTestFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		apiRoot string
		path    string
		rel     string
		ok      bool
	}{
		{"/", "/a/b", "/a/b", true},
		{"", "/", "/", true},
		{"/files", "/files", "/", true},
		{"/files/", "/files/a", "/a", true},
		{"files", "/files/a/b", "/a/b", true},
		{"/files", "/filesystem", "", false},
		{"/files", "/other", "", false},
	}

	for _, tt := range tests {
		rel, ok := stripPrefix(mountPrefix(tt.apiRoot), tt.path)
		assert.Equal(t, tt.ok, ok, "%s %s", tt.apiRoot, tt.path)
		assert.Equal(t, tt.rel, rel, "%s %s", tt.apiRoot, tt.path)
	}
}

func TestStaticNoTraversal(t *testing.T) {
	root := fixtureTree(t)
	h := staticFiles("/", root)(notFound)

	rec := do(t, h, "GET", "/sub/../../outside.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = do(t, h, "GET", "/sub/../hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaticDirectoryIndex(t *testing.T) {
	root := fixtureTree(t)
	h := staticFiles("/", root)(notFound)

	rec := do(t, h, "GET", "/gui?v=1", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/gui/?v=1", rec.Header().Get("Location"))

	rec = do(t, h, "GET", "/gui/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>gui</html>", rec.Body.String())

	// No index: falls through.
	rec = do(t, h, "GET", "/sub/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticMethods(t *testing.T) {
	root := fixtureTree(t)
	h := staticFiles("/", root)(notFound)

	rec := do(t, h, "HEAD", "/hello.txt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, "POST", "/hello.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "GET", "/hello.txt", map[string]string{"Range": "bytes=0-4"})
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestListingFormats(t *testing.T) {
	root := fixtureTree(t)
	h := directoryListing("/", root)(notFound)

	rec := do(t, h, "GET", "/", map[string]string{"Accept": "application/json"})
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	// Directories first, then files, hidden ones included.
	assert.Equal(t, []string{"gui", "sub", ".hidden", "hello.txt"}, names)

	rec = do(t, h, "GET", "/sub", map[string]string{"Accept": "text/plain"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nested.txt\n", rec.Body.String())

	rec = do(t, h, "GET", "/sub", map[string]string{"Accept": "text/html,application/json;q=0.9"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/sub/nested.txt"`)
	assert.Contains(t, body, `class="icon-text"`)
	assert.Contains(t, body, `href="/"`)

	rec = do(t, h, "GET", "/", map[string]string{"Accept": "image/png"})
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = do(t, h, "HEAD", "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
}

func TestListingFallsThrough(t *testing.T) {
	root := fixtureTree(t)
	h := directoryListing("/", root)(notFound)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/hello.txt", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/nope/", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", "/", nil).Code)
}

func TestListingEscapesNames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, writeTestFile(root, "a b&<c>.txt", "x"))
	h := directoryListing("/", root)(notFound)

	body := do(t, h, "GET", "/", nil).Body.String()
	assert.Contains(t, body, "a%20b&amp;%3Cc%3E.txt")
	assert.False(t, strings.Contains(body, "<c>"))
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "icon-directory", iconFor("gui", true))
	assert.Equal(t, "icon-image", iconFor("LOGO.PNG", false))
	assert.Equal(t, "icon-default", iconFor("README", false))
}
