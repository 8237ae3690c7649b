// Package progress persists per-namespace completion maps as JSON
// files under the data directory.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// ErrInvalidNamespace reports a namespace that cannot name a file.
var ErrInvalidNamespace = errors.New("invalid progress namespace")

var namespaceRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Store keeps one key→completed map per namespace, each in its own
// JSON file. Writes go through a file lock so concurrent processes
// (TUI and API server) do not corrupt each other.
type Store struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
}

// New creates the data directory if needed and returns a Store.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("data dir is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating progress dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(namespace string) (string, error) {
	if !namespaceRe.MatchString(namespace) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return filepath.Join(s.dir, namespace+".json"), nil
}

// Load returns the namespace's map. A missing file yields an empty
// map. A file that does not parse yields an empty map too; starting
// over beats refusing to start.
func (s *Store) Load(namespace string) (map[string]bool, error) {
	path, err := s.path(namespace)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(namespace, path)
}

func (s *Store) loadLocked(namespace, path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress %q: %w", namespace, err)
	}

	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn("progress file corrupt, resetting", "namespace", namespace, "error", err)
		return map[string]bool{}, nil
	}
	if m == nil {
		m = map[string]bool{}
	}
	return m, nil
}

// Save replaces the namespace's map atomically.
func (s *Store) Save(namespace string, m map[string]bool) error {
	path, err := s.path(namespace)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(namespace, path, m)
}

func (s *Store) saveLocked(namespace, path string, m map[string]bool) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking progress %q: %w", namespace, err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progress %q: %w", namespace, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing progress %q: %w", namespace, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing progress %q: %w", namespace, err)
	}
	return nil
}

// Set marks one key in the namespace.
func (s *Store) Set(namespace, key string, done bool) error {
	path, err := s.path(namespace)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadLocked(namespace, path)
	if err != nil {
		return err
	}
	m[key] = done
	return s.saveLocked(namespace, path, m)
}

// Completed counts true entries in the namespace.
func (s *Store) Completed(namespace string) (int, error) {
	m, err := s.Load(namespace)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, done := range m {
		if done {
			n++
		}
	}
	return n, nil
}

// Namespaces lists every namespace with a stored file.
func (s *Store) Namespaces() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing progress dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}
