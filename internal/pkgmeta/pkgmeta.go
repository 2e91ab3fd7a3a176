// Package pkgmeta finds and decodes the package.json that governs a
// directory, caching the answer for every directory on the way up.
package pkgmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// FileName is the manifest looked up by Cache.Nearest.
const FileName = "package.json"

// Package is the subset of package.json the linter reads.
type Package struct {
	Path            string            `json:"-"`
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Engines         map[string]string `json:"engines"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Dir returns the directory holding the manifest.
func (p *Package) Dir() string {
	return filepath.Dir(p.Path)
}

// SemVersion parses the package version.
func (p *Package) SemVersion() (*semver.Version, error) {
	if p.Version == "" {
		return nil, fmt.Errorf("%s: no version", p.Path)
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return nil, fmt.Errorf("%s: version %q: %w", p.Path, p.Version, err)
	}
	return v, nil
}

// Dependency returns the version range of a runtime or dev dependency.
func (p *Package) Dependency(name string) (string, bool) {
	if v, ok := p.Dependencies[name]; ok {
		return v, true
	}
	v, ok := p.DevDependencies[name]
	return v, ok
}

// DependencyVersion returns the lowest version admitted by the dependency's
// range, e.g. "^1.2.3" yields 1.2.3.
func (p *Package) DependencyVersion(name string) (*semver.Version, bool) {
	raw, ok := p.Dependency(name)
	if !ok {
		return nil, false
	}
	v, err := semver.NewVersion(trimRange(raw))
	if err != nil {
		return nil, false
	}
	return v, true
}

// EngineVersion returns the lowest version admitted by engines[name].
func (p *Package) EngineVersion(name string) (*semver.Version, bool) {
	raw, ok := p.Engines[name]
	if !ok {
		return nil, false
	}
	v, err := semver.NewVersion(trimRange(raw))
	if err != nil {
		return nil, false
	}
	return v, true
}

func trimRange(s string) string {
	for len(s) > 0 && (s[0] == '^' || s[0] == '~' || s[0] == '=' || s[0] == '>' || s[0] == 'v' || s[0] == ' ') {
		s = s[1:]
	}
	return s
}

type entry struct {
	pkg *Package
	err error
}

// Cache memoises Nearest per directory. It is safe for concurrent use and
// meant to live for one run.
type Cache struct {
	mu    sync.Mutex
	byDir map[string]entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{byDir: make(map[string]entry)}
}

// Nearest returns the package.json closest to dir, walking up to the
// filesystem root. It returns (nil, nil) when there is none.
func (c *Cache) Nearest(dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var visited []string
	var found entry
	for d := abs; ; {
		if e, ok := c.byDir[d]; ok {
			found = e
			break
		}
		visited = append(visited, d)
		pkg, err := load(filepath.Join(d, FileName))
		if err != nil || pkg != nil {
			found = entry{pkg: pkg, err: err}
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	for _, d := range visited {
		c.byDir[d] = found
	}
	return found.pkg, found.err
}

// Len returns the number of cached directories.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byDir)
}

func load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	pkg.Path = path
	return &pkg, nil
}
