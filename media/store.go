// Package media stores task photos on disk and bounds image downloads.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFileBytes is the largest file Save or Load will handle.
	MaxFileBytes = 10 << 20
	// MaxImageBytes is the per-image cap applied before persisting a photo.
	MaxImageBytes = 5 << 20
)

var (
	ErrEmpty    = errors.New("media is empty")
	ErrTooLarge = errors.New("media exceeds size limit")
	ErrTimeout  = errors.New("media download timed out")
)

// Store keeps files under Dir. Paths handed out by Save are relative to Dir.
type Store struct {
	Dir string
	// Limit overrides MaxFileBytes when positive.
	Limit int
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) limit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return MaxFileBytes
}

// NewName returns a unique file name such as task_1714546800000_1a2b3c4d.jpg.
func NewName(prefix string) string {
	if prefix == "" {
		prefix = "task"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s.jpg", prefix, time.Now().UnixMilli(), id)
}

// Save writes data under name and returns the stored relative path. The file
// appears atomically: readers never see a partial write.
func (s *Store) Save(data []byte, name string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > s.limit() {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if name == "" {
		name = NewName("task")
	}
	name = filepath.Base(name)

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.Dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return name, nil
}

// Load returns the file at path, or nil when it is missing, empty or larger
// than the store limit.
func (s *Store) Load(path string) []byte {
	full, ok := s.resolve(path)
	if !ok {
		return nil
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() || info.Size() == 0 || info.Size() > int64(s.limit()) {
		return nil
	}
	data, err := os.ReadFile(full)
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}

// Remove deletes the file at path. Missing files are not an error.
func (s *Store) Remove(path string) error {
	full, ok := s.resolve(path)
	if !ok {
		return nil
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes every path, returning the first failure.
func (s *Store) RemoveAll(paths []string) error {
	var first error
	for _, p := range paths {
		if err := s.Remove(p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Store) resolve(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	return filepath.Join(s.Dir, filepath.Base(path)), true
}
