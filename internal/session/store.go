// Package session persists the signed-in user and the display-name
// override between CLI runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	KeyToken       = "algotix_token"
	KeyUser        = "algotix_user"
	KeyDisplayName = "username"

	DefaultDisplayName = "Alex Johnson"
)

type User struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type Store struct {
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Open opens the sqlite-backed store at dsn.
func Open(ctx context.Context, dsn string) (*Store, func() error, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewStore(NewSQLiteRepository(db)), db.Close, nil
}

func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// User returns the stored profile. A missing or malformed slot reads as nil.
func (s *Store) User(ctx context.Context) (*User, error) {
	v, err := s.repo.Get(ctx, KeyUser)
	if err != nil || len(v) == 0 {
		return nil, err
	}
	var u User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.Token(ctx)
	return err == nil && tok != ""
}

func (s *Store) SetAuth(ctx context.Context, token string, user User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Set(ctx, KeyToken, []byte(token)); err != nil {
		return err
	}
	return s.repo.Set(ctx, KeyUser, b)
}

// Logout removes the token and the user, keeping the display-name override.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyToken); err != nil {
		return err
	}
	return s.repo.Delete(ctx, KeyUser)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *Store) DisplayName(ctx context.Context) string {
	if v, err := s.repo.Get(ctx, KeyDisplayName); err == nil && strings.TrimSpace(string(v)) != "" {
		return string(v)
	}
	if u, err := s.User(ctx); err == nil && u != nil && u.Name != "" {
		return u.Name
	}
	return DefaultDisplayName
}

func (s *Store) SetDisplayName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.repo.Delete(ctx, KeyDisplayName)
	}
	return s.repo.Set(ctx, KeyDisplayName, []byte(name))
}
