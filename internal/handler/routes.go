package handler

import (
	"net/http"

	"github.com/msomdec/comment-board/internal/domain"
	"github.com/msomdec/comment-board/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Routes that need
// the caller's identity run behind LoadSession.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, sessions *service.SessionService, comments *service.CommentService, db domain.Database, cookieSecure bool) {
	authHandler := NewAuthHandler(auth, sessions, cookieSecure)
	commentHandler := NewCommentHandler(comments)

	withSession := func(h http.HandlerFunc) http.Handler {
		return LoadSession(auth, sessions, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(db))

	mux.HandleFunc("POST /api/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/check-auth", withSession(authHandler.HandleCheckAuth))

	mux.Handle("GET /api/comments", withSession(commentHandler.HandleList))
	mux.Handle("POST /api/comments", withSession(commentHandler.HandleCreate))
	mux.Handle("DELETE /api/comments/{id}", withSession(commentHandler.HandleDelete))
}

// Wrap applies the middleware every route shares.
func Wrap(h http.Handler) http.Handler {
	return Recover(LogRequests(SecurityHeaders(h)))
}
