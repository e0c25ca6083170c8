package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
)

// Store resolves source paths and loads them into tables.
//
// Bare paths are read from the store's filesystem; paths carrying a scheme
// bypass it entirely.
type Store struct {
	fs billy.Filesystem
	s3 *S3Config
}

// NewStore returns a store over fs.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// NewStoreWithS3 returns a store over fs that uses cfg for s3:// sources.
func NewStoreWithS3(fs billy.Filesystem, cfg *S3Config) *Store {
	return &Store{fs: fs, s3: cfg}
}

// NewDirStore returns a store over the local directory dir.
func NewDirStore(dir string) *Store {
	return NewStore(osfs.New(dir))
}

// Load reads the source at path into a fresh table. A missing source, on
// any scheme, yields an empty table rather than an error.
func (store *Store) Load(path string) (*Table, error) {
	reader, err := store.open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTable(), nil
		}
		return nil, err
	}
	defer reader.Close()

	table, err := ReadTable(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// open routes path to the handler for its scheme.
func (store *Store) open(path string) (io.ReadCloser, error) {
	switch detectScheme(path) {
	case schemeLocal:
		return store.fs.Open(path)
	case schemeFile:
		return osOpen(strings.TrimPrefix(path, "file://"))
	case schemeHTTP, schemeHTTPS:
		return openHTTPReader(path)
	case schemeS3:
		return openS3Reader(path, store.s3)
	case schemeGit:
		return openGitReader(path)
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", path)
	}
}

// Sources lists every .ndjson and .jsonl file under the store's filesystem,
// sorted by path. Remote sources are not enumerable.
func (store *Store) Sources() ([]string, error) {
	sources := []string{}
	if err := store.listSources("/", &sources); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sources, nil
		}
		return nil, err
	}
	sort.Strings(sources)
	return sources, nil
}

func (store *Store) listSources(dir string, sources *[]string) error {
	entries, err := store.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := store.fs.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := store.listSources(name, sources); err != nil {
				return err
			}
			continue
		}
		switch filepath.Ext(name) {
		case ".ndjson", ".jsonl":
			*sources = append(*sources, strings.TrimPrefix(name, "/"))
		}
	}
	return nil
}
