package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/msomdec/comment-board/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 5
	// bcrypt only considers the first 72 bytes of a password.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles user registration, credential checks and password
// hashing.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
	dummyHash  func() []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		bcryptCost: bcryptCost,
		dummyHash: sync.OnceValue(func() []byte {
			hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
			return hash
		}),
	}
}

// Register validates the input, hashes the password and creates the user.
// Username and email are trimmed; an empty email is stored as absent.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || password == "" {
		return nil, domain.Invalid("Username dan password harus diisi")
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return nil, domain.Invalid("Username minimal 3 karakter")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, domain.Invalid("Password minimal 5 karakter")
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.Invalid("Password maksimal 72 byte")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, domain.Invalid("Format email tidak valid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks credentials and returns the matching user. An unknown
// username and a wrong password both yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Invalid("Username dan password harus diisi")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a real check.
			bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}

	return user, nil
}

// VerifyPassword reports whether plaintext matches the bcrypt hash.
func (s *AuthService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
