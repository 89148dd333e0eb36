package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/comment-board/internal/domain"
)

const (
	MaxCommentLength = 500
	// DefaultListLimit caps how many comments a listing returns.
	DefaultListLimit = 50
)

// CommentService handles creating, listing and deleting comments.
type CommentService struct {
	comments domain.CommentRepository
}

func NewCommentService(comments domain.CommentRepository) *CommentService {
	return &CommentService{comments: comments}
}

// Create stores a comment by author. Content is trimmed before it is
// validated and stored.
func (s *CommentService) Create(ctx context.Context, author *domain.User, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("Comment tidak boleh kosong")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, domain.Invalid("Comment maksimal 500 karakter")
	}

	comment := &domain.Comment{
		UserID:   author.ID,
		Username: author.Username,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// List returns the newest comments. A non-positive limit means
// DefaultListLimit.
func (s *CommentService) List(ctx context.Context, limit int) ([]domain.Comment, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	comments, err := s.comments.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// Delete removes the comment when userID owns it.
func (s *CommentService) Delete(ctx context.Context, id, userID int64) error {
	return s.comments.DeleteByOwner(ctx, id, userID)
}
