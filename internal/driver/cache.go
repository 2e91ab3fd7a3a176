package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"esfix/internal/diag"
	"esfix/internal/pkgmeta"
	"esfix/internal/source"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// CacheKey identifies one lint result.
type CacheKey [sha256.Size]byte

// ResultCache stores lint results on disk, keyed by everything that can
// change them. Thread-safe for concurrent access.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema      uint16
	Path        string
	Diagnostics []*diag.Diagnostic
}

// OpenResultCache opens (creating if needed) the cache at dir. An empty dir
// selects $XDG_CACHE_HOME/esfix.
func OpenResultCache(dir string) (*ResultCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "esfix")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *ResultCache) Dir() string { return c.dir }

// KeyInput is what a cache key is derived from.
type KeyInput struct {
	File        *source.File
	Fingerprint string // config.Config.Fingerprint
	Version     string
	Rules       []string
	// Package is the manifest rules may consult; its content is part of
	// the key.
	Package *pkgmeta.Package
	// Day makes date-dependent results (expiring TODOs) expire daily.
	Day time.Time
}

// Key hashes in. The package manifest is folded in through its msgpack
// encoding.
func (in KeyInput) Key() (CacheKey, error) {
	h := sha256.New()
	_, _ = h.Write(in.File.Hash[:])
	_, _ = fmt.Fprintf(h, "\x00%s\x00%s\x00%s\x00%d", in.File.Path, in.Fingerprint, in.Version, cacheSchemaVersion)
	for _, r := range in.Rules {
		_, _ = fmt.Fprintf(h, "\x00%s", r)
	}
	if !in.Day.IsZero() {
		_, _ = fmt.Fprintf(h, "\x00%s", in.Day.Format("2006-01-02"))
	}
	if in.Package != nil {
		raw, err := msgpack.Marshal(in.Package)
		if err != nil {
			return CacheKey{}, fmt.Errorf("cache key: %w", err)
		}
		_, _ = h.Write(raw)
	}
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key, nil
}

func (c *ResultCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put stores the diagnostics of file under key.
func (c *ResultCache) Put(key CacheKey, file *source.File, diags []*diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	for _, d := range diags {
		for _, f := range d.Fixes {
			if f.Thunk != nil {
				return errors.New("cache: unresolved fix")
			}
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после Rename файла уже нет; ошибку удаления игнорируем
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&cachePayload{Schema: cacheSchemaVersion, Path: file.Path, Diagnostics: diags}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads the diagnostics stored under key and rebinds their spans to
// file.
func (c *ResultCache) Get(key CacheKey, file *source.File) ([]*diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", f.Name(), err)
	}
	if payload.Schema != cacheSchemaVersion || payload.Path != file.Path {
		return nil, false, nil
	}
	for _, d := range payload.Diagnostics {
		rebind(d, file.ID)
	}
	return payload.Diagnostics, true, nil
}

// rebind: FileID не переживает процесс, спаны привязываем заново.
// Спаны вне файлов (Nowhere) не трогаем.
func rebind(d *diag.Diagnostic, id source.FileID) {
	move := func(sp *source.Span) {
		if !sp.IsNowhere() {
			sp.File = id
		}
	}
	move(&d.Primary)
	for i := range d.Notes {
		move(&d.Notes[i].Span)
	}
	for _, f := range d.Fixes {
		for i := range f.Edits {
			move(&f.Edits[i].Span)
		}
	}
}

// DropAll removes every cached result.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
