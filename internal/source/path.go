package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathStyle selects how DisplayPath renders a file path.
type PathStyle uint8

const (
	// PathAsGiven keeps short or relative paths and shortens long absolute
	// ones to their base name.
	PathAsGiven PathStyle = iota
	PathAbsolute
	PathRelative
	PathBase
)

// ParsePathStyle reads the --path-mode spelling of a style.
func ParsePathStyle(s string) (PathStyle, error) {
	switch s {
	case "", "auto":
		return PathAsGiven, nil
	case "absolute":
		return PathAbsolute, nil
	case "relative":
		return PathRelative, nil
	case "basename":
		return PathBase, nil
	}
	return PathAsGiven, fmt.Errorf("unknown path mode %q (expected auto|absolute|relative|basename)", s)
}

// длиннее этого абсолютные пути в режиме PathAsGiven обрезаются до имени
const longPath = 40

// DisplayPath renders the file path in style. baseDir is only read by
// PathRelative; an empty baseDir means the working directory.
func (f *File) DisplayPath(style PathStyle, baseDir string) string {
	switch style {
	case PathAbsolute:
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathBase:
		return filepath.Base(f.Path)
	default:
		if filepath.IsAbs(f.Path) && len(f.Path) >= longPath {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns p as a clean absolute slash path.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath renders p relative to baseDir (the working directory when
// empty). Paths outside baseDir come back absolute.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}
