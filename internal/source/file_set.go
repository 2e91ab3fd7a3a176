package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file version seen during a run. Ids are never reused:
// adding a path again creates a new version and makes it the latest.
type FileSet struct {
	files   []*File
	latest  map[string]FileID
	baseDir string
}

// NewFileSet returns an empty set.
func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// SetBaseDir sets the directory relative paths are rendered against.
func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the base directory, or the working directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers already normalized content under path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: file too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil || FileID(n) == NoFile {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    path,
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		starts:  lineStarts(content),
	})
	fs.latest[path] = id
	return id
}

// Load reads path from disk and adds its normalized content.
func (fs *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line or the walker
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory buffer (stdin, test input, editor document).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fs.Add(name, content, flags|FileVirtual)
}

// Get returns the file with the given id. It panics on unknown ids; check
// with Has first when the id comes from outside.
func (fs *FileSet) Get(id FileID) *File {
	return fs.files[id]
}

// Has reports whether id belongs to the set. A nil set has no files.
func (fs *FileSet) Has(id FileID) bool {
	return fs != nil && int(id) < len(fs.files)
}

// Len counts every version, superseded ones included.
func (fs *FileSet) Len() int { return len(fs.files) }

// Latest returns the newest version id registered for path.
func (fs *FileSet) Latest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	return f.Position(span.Start), f.Position(span.End)
}
