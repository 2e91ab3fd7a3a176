package pkgmeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNearestWalksUpAndCaches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"name": "app", "version": "1.4.0", "dependencies": {"lodash": "^4.17.21"}}`)
	deep := filepath.Join(root, "src", "lib", "util")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	c := NewCache()
	pkg, err := c.Nearest(deep)
	require.NoError(t, err)
	require.NotNil(t, pkg)
	assert.Equal(t, "app", pkg.Name)
	assert.Equal(t, root, pkg.Dir())
	assert.Equal(t, 4, c.Len(), "every visited directory is cached")

	sibling := filepath.Join(root, "src", "other")
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	again, err := c.Nearest(sibling)
	require.NoError(t, err)
	assert.Same(t, pkg, again)

	v, err := pkg.SemVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v.String())

	dep, ok := pkg.DependencyVersion("lodash")
	require.True(t, ok)
	assert.Equal(t, "4.17.21", dep.String())
	_, ok = pkg.Dependency("react")
	assert.False(t, ok)
}

func TestNearestPrefersClosest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"name": "outer"}`)
	writeFile(t, filepath.Join(root, "packages", "inner", FileName), `{"name": "inner", "devDependencies": {"jest": "~29.0.0"}}`)

	c := NewCache()
	pkg, err := c.Nearest(filepath.Join(root, "packages", "inner"))
	require.NoError(t, err)
	assert.Equal(t, "inner", pkg.Name)
	_, ok := pkg.Dependency("jest")
	assert.True(t, ok)

	pkg, err = c.Nearest(filepath.Join(root, "packages"))
	require.NoError(t, err)
	assert.Equal(t, "outer", pkg.Name)
}

func TestNearestReportsBrokenManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"name": `)
	_, err := NewCache().Nearest(root)
	assert.Error(t, err)
}

func TestSemVersionMissing(t *testing.T) {
	_, err := (&Package{Path: "package.json"}).SemVersion()
	assert.Error(t, err)
}
