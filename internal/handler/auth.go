package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/comment-board/internal/domain"
	"github.com/msomdec/comment-board/internal/service"
)

const sessionCookieName = "board_session"

const (
	msgInvalidBody   = "Format request tidak valid"
	msgInternal      = "Terjadi kesalahan pada server"
	msgDuplicateUser = "Username sudah digunakan"
	msgBadLogin      = "Username atau password salah"
)

// AuthHandler handles registration, login, logout and session checks.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleRegister creates an account and signs the new user in.
// POST /api/register
// Request:  {"username":"...","password":"...","email":"..."}
// Response: {"success":true,"message":"...","user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, domain.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, msgDuplicateUser)
		default:
			slog.Error("register user", "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		slog.Error("start session after register", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registrasi berhasil!",
		"user":    toUserDTO(user),
	})
}

// HandleLogin checks credentials and establishes a session.
// POST /api/login
// Request:  {"username":"...","password":"..."}
// Response: {"success":true,"message":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Message)
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, msgBadLogin)
		default:
			slog.Error("login user", "error", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		slog.Error("start session after login", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login berhasil!",
		"user":    toUserDTO(user),
	})
}

// HandleLogout destroys the session and expires the cookie.
// POST /api/logout
// Response: {"success":true,"message":"..."}
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			slog.Error("destroy session", "error", err)
			writeError(w, http.StatusInternalServerError, "Gagal logout")
			return
		}
	}

	h.clearCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logout berhasil",
	})
}

// HandleCheckAuth reports whether the request carries a valid session.
// GET /api/check-auth
// Response: {"authenticated":true,"user":{...}} or {"authenticated":false}
func (h *AuthHandler) HandleCheckAuth(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          toUserDTO(user),
	})
}

// startSession replaces any session the request carries with a fresh one
// for user and sets the cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			slog.Warn("destroy previous session", "error", err)
		}
	}

	token, session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
		Expires:  session.ExpiresAt,
	})
	return nil
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
