package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	require.NoError(t, os.WriteFile(path, []byte("p { color: red; }"), 0o644))

	assert.Equal(t, "p { color: red; }", FileLoader(path, ""))
}

func TestFileLoader_RelativeToBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte("a{}"), 0o644))

	assert.Equal(t, "a{}", FileLoader("a.css", filepath.Join(dir, "index.html")))
	assert.Equal(t, "a{}", FileLoader("a.css", dir))
}

func TestFileLoader_MissingFile(t *testing.T) {
	assert.Equal(t, "", FileLoader(filepath.Join(t.TempDir(), "nope.css"), ""))
	assert.Equal(t, "", FileLoader("", ""))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://example.com/css/site.css", ResolveURL("https://example.com/index.html", "css/site.css"))
	assert.Equal(t, "https://other.org/x", ResolveURL("https://example.com/", "https://other.org/x"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/abs/file.css", ResolvePath("/base/dir/", "/abs/file.css"))
	assert.Equal(t, "rel.css", ResolvePath("", "rel.css"))
	assert.Equal(t, "/tmp/page/rel.css", ResolvePath("file:///tmp/page/index.html", "rel.css"))
	assert.Equal(t, "/x/y.png", ResolvePath("", "file:///x/y.png"))
	assert.Equal(t, "img.png", ResolvePath("https://example.com/", "img.png"))
}
