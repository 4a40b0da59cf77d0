// Package users holds the accounts of the auth API: signup, password login
// and token verification.
package users

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"algotix/internal/tokens"
)

const MinPasswordLength = 6

var (
	ErrUserExists         = errors.New("user already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// Profile is the public part of a user.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u User) Profile() Profile { return Profile{Email: u.Email, Name: u.Name} }

type Repository interface {
	LoadAll() ([]User, error)
	Upsert(user User) error
}

type Service struct {
	repo   Repository
	issuer *tokens.Issuer
	now    func() time.Time

	mu    sync.RWMutex
	users map[string]User
}

func NewService(repo Repository, issuer *tokens.Issuer) (*Service, error) {
	s := &Service{repo: repo, issuer: issuer, now: time.Now, users: make(map[string]User)}
	if repo != nil {
		list, err := repo.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
		for _, u := range list {
			s.users[normalize(u.Email)] = u
		}
	}
	return s, nil
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Signup creates the user and returns a fresh token.
func (s *Service) Signup(name, email, password string) (string, Profile, error) {
	email = normalize(email)
	if len(password) < MinPasswordLength {
		return "", Profile{}, ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", Profile{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	if _, ok := s.users[email]; ok {
		s.mu.Unlock()
		return "", Profile{}, ErrUserExists
	}
	u := User{Email: email, Name: name, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	s.users[email] = u
	s.mu.Unlock()

	if err := s.persist(u); err != nil {
		s.mu.Lock()
		delete(s.users, email)
		s.mu.Unlock()
		return "", Profile{}, err
	}
	tok, err := s.issuer.Generate(u.Email, u.Name)
	if err != nil {
		return "", Profile{}, err
	}
	return tok, u.Profile(), nil
}

// prehash maps any password to 44 bytes, under bcrypt's 72-byte limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (s *Service) Login(email, password string) (string, Profile, error) {
	email = normalize(email)
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), prehash(password)) != nil {
		return "", Profile{}, ErrInvalidCredentials
	}

	u.LastLogin = s.now().UTC()
	s.mu.Lock()
	s.users[email] = u
	s.mu.Unlock()
	if err := s.persist(u); err != nil {
		return "", Profile{}, err
	}
	tok, err := s.issuer.Generate(u.Email, u.Name)
	if err != nil {
		return "", Profile{}, err
	}
	return tok, u.Profile(), nil
}

// Verify resolves a token to the user it was issued for.
func (s *Service) Verify(token string) (Profile, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return Profile{}, ErrInvalidToken
	}
	s.mu.RLock()
	u, ok := s.users[normalize(claims.Subject)]
	s.mu.RUnlock()
	if !ok {
		return Profile{}, ErrInvalidToken
	}
	return u.Profile(), nil
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Service) persist(u User) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Upsert(u); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
