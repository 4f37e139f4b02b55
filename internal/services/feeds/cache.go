package feeds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const schemeSeparator = "://"

// FileCache implements CacheStore on top of an afero filesystem
type FileCache struct {
	fs  afero.Fs
	now func() time.Time
}

// Ensure FileCache implements CacheStore interface
var _ CacheStore = (*FileCache)(nil)

// FileCacheOption is a functional option for configuring the cache
type FileCacheOption func(*FileCache)

// WithClock replaces the time source used for freshness checks
func WithClock(now func() time.Time) FileCacheOption {
	return func(c *FileCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewFileCache creates a cache backed by fs
func NewFileCache(fs afero.Fs, opts ...FileCacheOption) *FileCache {
	c := &FileCache{
		fs:  fs,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOSFileCache creates a cache backed by the real filesystem
func NewOSFileCache(opts ...FileCacheOption) *FileCache {
	return NewFileCache(afero.NewOsFs(), opts...)
}

// FileName derives the cache file name for a feed URL: everything up to and
// including the first "://" is dropped and path separators become "_".
// URLs that differ only before "://" share a file.
func FileName(url string) string {
	name := url
	if idx := strings.Index(name, schemeSeparator); idx >= 0 {
		name = name[idx+len(schemeSeparator):]
	}
	name = strings.ReplaceAll(name, "/", "_")
	if os.PathSeparator != '/' {
		name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	}
	return name
}

// ResolvePath returns the cache file for url inside dir
func (c *FileCache) ResolvePath(url, dir string) (string, error) {
	name := FileName(url)
	if name == "" || name == "." || name == ".." {
		return "", NewValidationError("url", fmt.Sprintf("no cache file name can be derived from %q", url))
	}

	exists, err := afero.DirExists(c.fs, dir)
	if err != nil {
		return "", &CacheDirectoryError{Dir: dir, Err: err}
	}
	if !exists {
		if err := c.fs.MkdirAll(dir, 0755); err != nil {
			return "", &CacheDirectoryError{Dir: dir, Err: err}
		}
	}

	return filepath.Join(dir, name), nil
}

// IsFresh reports whether the file at path exists and now is still before
// its modification time plus maxAge
func (c *FileCache) IsFresh(path string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}

	info, err := c.fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	return c.now().Before(info.ModTime().Add(maxAge))
}

// Read returns the cached bytes at path
func (c *FileCache) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	return data, nil
}

// Write stores data at path, replacing any previous content
func (c *FileCache) Write(path string, data []byte) error {
	if err := afero.WriteFile(c.fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}
