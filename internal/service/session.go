package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/comment-board/internal/domain"
)

// SessionService issues and resolves server-side sessions. The cookie value
// is an HS256 token whose subject is the session id; the session row is the
// source of truth, so destroying it invalidates the cookie immediately.
type SessionService struct {
	sessions domain.SessionRepository
	secret   []byte
	ttl      time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions domain.SessionRepository, secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// TTL is the absolute lifetime of a session.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create stores a new session for userID and returns its signed token.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, *domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.sign(session)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, session, nil
}

// Resolve validates the token and loads its session. Any invalid, expired
// or unknown token yields ErrUnauthorized.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	id, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

// Destroy deletes the session behind token. Tokens that do not verify have
// no session to destroy and are ignored.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	id, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions whose expiry has passed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (s *SessionService) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("purge expired sessions", "error", err)
				}
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}
}

func (s *SessionService) sign(session *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   session.ID,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parse(tokenString string) (string, error) {
	if tokenString == "" {
		return "", domain.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
