package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/comment-board/internal/domain"
	"github.com/msomdec/comment-board/internal/service"
)

// CommentHandler handles the comment endpoints. Every endpoint requires an
// authenticated user in the request context.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// HandleList returns the newest comments.
// GET /api/comments
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) == nil {
		writeError(w, http.StatusUnauthorized, "Anda harus login untuk melihat comment")
		return
	}

	comments, err := h.comments.List(r.Context(), service.DefaultListLimit)
	if err != nil {
		slog.Error("list comments", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal mengambil comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"comments": toCommentDTOs(comments),
	})
}

// HandleCreate posts a comment as the current user.
// POST /api/comments
// Request: {"content":"..."}
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Anda harus login untuk membuat comment")
		return
	}

	var req commentRequest
	if err := readRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	comment, err := h.comments.Create(r.Context(), user, req.Content)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		slog.Error("create comment", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal membuat comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Comment berhasil dibuat",
		"comment": toCommentDTO(comment),
	})
}

// HandleDelete deletes one of the current user's comments.
// DELETE /api/comments/{id}
// Response: 204 No Content
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Anda harus login untuk menghapus comment")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ID comment tidak valid")
		return
	}

	err = h.comments.Delete(r.Context(), id, user.ID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Anda tidak memiliki izin untuk menghapus comment ini")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Comment tidak ditemukan")
	default:
		slog.Error("delete comment", "comment_id", id, "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal menghapus comment")
	}
}
