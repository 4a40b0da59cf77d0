package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileRepository stores users as one JSON object keyed by email.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
			return nil, fmt.Errorf("create users file: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

// LoadAll returns users ordered by email.
func (r *FileRepository) LoadAll() ([]User, error) {
	r.mu.Lock()
	byEmail, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(byEmail))
	for _, u := range byEmail {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *FileRepository) Upsert(user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byEmail, err := r.read()
	if err != nil {
		return err
	}
	byEmail[user.Email] = user
	return r.write(byEmail)
}

func (r *FileRepository) read() (map[string]User, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	byEmail := make(map[string]User)
	if len(bytes.TrimSpace(raw)) == 0 {
		return byEmail, nil
	}
	if err := json.Unmarshal(raw, &byEmail); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return byEmail, nil
}

// write replaces the file atomically.
func (r *FileRepository) write(byEmail map[string]User) error {
	raw, err := json.MarshalIndent(byEmail, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(raw, '\n'), 0o600); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return os.Rename(tmp, r.path)
}
