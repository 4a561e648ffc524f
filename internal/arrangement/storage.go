package arrangement

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/1broseidon/floatdesk/internal/config"
)

// ErrNotFound means no arrangement is stored under the name.
var ErrNotFound = errors.New("arrangement not found")

// Store keeps one JSON file per arrangement in a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. An empty dir uses DefaultDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{dir: dir}, nil
}

// DefaultDir is the arrangements directory under the config directory.
func DefaultDir() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "arrangements"), nil
}

func (s *Store) Dir() string { return s.dir }

// ValidateName rejects names that are empty or would escape the store
// directory.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("arrangement name is required")
	}
	if strings.Contains(name, string(os.PathSeparator)) || name != filepath.Base(name) {
		return fmt.Errorf("invalid arrangement name %q", name)
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return fmt.Errorf("invalid arrangement name %q", name)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+".json"), nil
}

func (s *Store) Write(a *Arrangement) error {
	if a == nil {
		return fmt.Errorf("arrangement is nil")
	}
	path, err := s.path(a.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create arrangement directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode arrangement: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write arrangement %q: %w", a.Name, err)
	}
	return nil
}

func (s *Store) Read(name string) (*Arrangement, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read arrangement %q: %w", name, err)
	}
	var a Arrangement
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse arrangement %q: %w", name, err)
	}
	if a.Name == "" {
		a.Name = name
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("arrangement %q: %w", name, err)
	}
	return &a, nil
}

func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete arrangement %q: %w", name, err)
	}
	return nil
}

// List returns stored arrangement names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list arrangements: %w", err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
