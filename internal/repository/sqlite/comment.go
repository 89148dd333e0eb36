package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/msomdec/comment-board/internal/domain"
)

// CommentRepository implements domain.CommentRepository using SQLite.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db.SqlDB}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (user_id, username, content, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.UserID, comment.Username, comment.Content, now,
	)
	if err != nil {
		return &domain.StoreError{Op: "insert comment", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return &domain.StoreError{Op: "get comment id", Err: err}
	}

	comment.ID = id
	comment.CreatedAt = now
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c := &domain.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, username, content, created_at
		 FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StoreError{Op: "query comment by id", Err: err}
	}
	return c, nil
}

func (r *CommentRepository) List(ctx context.Context, limit int) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, username, content, created_at
		 FROM comments ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &domain.StoreError{Op: "list comments", Err: err}
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, &domain.StoreError{Op: "scan comment", Err: err}
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "iterate comments", Err: err}
	}
	return comments, nil
}

// DeleteByOwner deletes with a conditional statement and only inspects the
// row when nothing matched, all inside one transaction. Of two concurrent
// deletes by the owner exactly one affects a row; the other sees ErrNotFound.
func (r *CommentRepository) DeleteByOwner(ctx context.Context, id, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM comments WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return &domain.StoreError{Op: "delete comment", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.StoreError{Op: "rows affected", Err: err}
	}

	if affected == 0 {
		var ownerID int64
		err := tx.QueryRowContext(ctx,
			"SELECT user_id FROM comments WHERE id = ?", id).Scan(&ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return &domain.StoreError{Op: "query comment owner", Err: err}
		}
		return domain.ErrForbidden
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit delete", Err: err}
	}
	return nil
}
