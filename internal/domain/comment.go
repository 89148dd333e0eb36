package domain

import (
	"context"
	"time"
)

// Comment is a short text post owned by a user. Username is copied from the
// author at creation time.
type Comment struct {
	ID        int64
	UserID    int64
	Username  string
	Content   string
	CreatedAt time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	// List returns at most limit comments, newest first.
	List(ctx context.Context, limit int) ([]Comment, error)
	// DeleteByOwner removes the comment if userID owns it. It returns
	// ErrNotFound when the comment does not exist and ErrForbidden when it
	// belongs to someone else.
	DeleteByOwner(ctx context.Context, id, userID int64) error
}
