package session

import (
	"context"       // Context for store operations
	"encoding/json" // Session encoding
	"errors"        // Error matching
	"fmt"           // Error wrapping
	"io/fs"         // fs.ErrNotExist
	"os"            // File access
	"path/filepath" // Session file paths
	"strings"       // File name parsing
	"time"          // Expiry checks
)

// FileStore keeps one JSON file per session under a directory
type FileStore struct {
	dir string           // Directory holding <id>.json files
	now func() time.Time // Clock used for expiry
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

// Get loads a session, removing the file when it has expired
func (f *FileStore) Get(_ context.Context, id string) (*Session, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	s, err := f.read(id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Expired(f.now()) {
		_ = os.Remove(f.path(id)) // Corrupt or stale
		return nil, ErrNotFound
	}
	return s, nil
}

// read returns a nil session for files that do not decode
func (f *FileStore) read(id string) (*Session, error) {
	b, err := os.ReadFile(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session to a temp file and renames it into place
func (f *FileStore) Save(_ context.Context, s *Session) error {
	if !validID(s.ID) {
		return fmt.Errorf("session id %q is not a uuid", s.ID)
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, s.ID+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(s.ID))
}

// Delete removes the session file, ignoring files already gone
func (f *FileStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	err := os.Remove(f.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Purge removes expired or unreadable session files and returns the count
func (f *FileStore) Purge(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, err
	}
	now := f.now()
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok || !validID(id) {
			continue
		}
		s, err := f.read(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if s != nil && !s.Expired(now) {
			continue
		}
		if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
