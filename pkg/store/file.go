package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// FileStore keeps one JSON file per map in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir. The directory is created if it
// doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *FileStore) Get(_ context.Context, id string) (Record, error) {
	entry, err := readEntry(s.path(id))
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return Record{ID: entry.ID, Name: entry.Name, Data: entry.Data, UpdatedAt: entry.UpdatedAt}, nil
}

func (s *FileStore) Put(_ context.Context, rec Record) error {
	rec, err := prepare(rec)
	if err != nil {
		return err
	}
	data, err := json.Marshal(fileEntry{ID: rec.ID, Name: rec.Name, Data: rec.Data, UpdatedAt: rec.UpdatedAt})
	if err != nil {
		return err
	}

	path := s.path(rec.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write then rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) List(_ context.Context) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		entry, err := readEntry(path)
		if err != nil {
			return nil // skip unreadable entries
		}
		out = append(out, Info{ID: entry.ID, Name: entry.Name, UpdatedAt: entry.UpdatedAt})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortInfos(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// path converts an id to a file path, using the first two hex characters of
// its hash as a subdirectory.
func (s *FileStore) path(id string) string {
	sum := sha256.Sum256([]byte(id))
	hash := hex.EncodeToString(sum[:])
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileEntry{}, err
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return fileEntry{}, err
	}
	return entry, nil
}

var _ Store = (*FileStore)(nil)
