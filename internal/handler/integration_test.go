package handler_test

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func TestIntegration_RegisterLoginCommentLogout(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)

	// 1. Register.
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["success"] != true || body["message"] != "Registrasi berhasil!" {
		t.Fatalf("register: unexpected body %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" || user["id"] == nil {
		t.Fatalf("register: unexpected user %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("register: password hash must not be returned")
	}

	// 2. Log out of the registration session, then log in.
	doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["message"] != "Login berhasil!" {
		t.Fatalf("login: unexpected body %v", body)
	}

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "board_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("login: expected board_session cookie")
	}
	if !sessionCookie.HttpOnly || sessionCookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("login: expected HttpOnly SameSite=Lax cookie, got %+v", sessionCookie)
	}
	if sessionCookie.MaxAge != 86400 {
		t.Fatalf("login: expected Max-Age 86400, got %d", sessionCookie.MaxAge)
	}

	// 3. Check session.
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/check-auth", nil)
	if resp.StatusCode != http.StatusOK || body["authenticated"] != true {
		t.Fatalf("check-auth: expected authenticated, got %d %v", resp.StatusCode, body)
	}

	// 4. Post a comment.
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/comments", map[string]string{
		"content": "hello",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create comment: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	comment, _ := body["comment"].(map[string]any)
	if comment["content"] != "hello" || comment["username"] != "alice" {
		t.Fatalf("create comment: unexpected comment %v", comment)
	}

	// 5. List comments.
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/comments", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list comments: expected 200, got %d", resp.StatusCode)
	}
	list, _ := body["comments"].([]any)
	if len(list) != 1 || list[0].(map[string]any)["content"] != "hello" {
		t.Fatalf("list comments: expected the new comment, got %v", list)
	}

	// 6. Logout.
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	if resp.StatusCode != http.StatusOK || body["message"] != "Logout berhasil" {
		t.Fatalf("logout: unexpected %d %v", resp.StatusCode, body)
	}

	// 7. Comments now require login again.
	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/comments", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("list after logout: expected 401, got %d", resp.StatusCode)
	}

	// 8. The old token is dead server-side too.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/comments", nil)
	req.AddCookie(&http.Cookie{Name: "board_session", Value: sessionCookie.Value})
	oldResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("replay old cookie: %v", err)
	}
	oldResp.Body.Close()
	if oldResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replay old cookie: expected 401, got %d", oldResp.StatusCode)
	}
}

func TestIntegration_RegisterEstablishesSession(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)

	doJSON(t, client, http.MethodPost, srv.URL+"/api/register", map[string]string{
		"username": "newbie",
		"password": "secret1",
	})

	resp, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/check-auth", nil)
	if resp.StatusCode != http.StatusOK || body["authenticated"] != true {
		t.Fatalf("expected registration to sign the user in, got %v", body)
	}
}

func TestIntegration_RegisterValidation(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)

	tests := []struct {
		name    string
		payload map[string]string
		want    string
	}{
		{"missing password", map[string]string{"username": "bob"}, "Username dan password harus diisi"},
		{"short username", map[string]string{"username": "  bo ", "password": "secret1"}, "Username minimal 3 karakter"},
		{"four char password", map[string]string{"username": "bob", "password": "abcd"}, "Password minimal 5 karakter"},
		{"bad email", map[string]string{"username": "bob", "password": "secret1", "email": "nope"}, "Format email tidak valid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", tc.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if body["error"] != tc.want {
				t.Fatalf("expected error %q, got %v", tc.want, body["error"])
			}
		})
	}

	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", map[string]string{
		"username": "bob", "password": "abcde", "email": "bob@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("5-char password: expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_RegisterDuplicateUsername(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)
	payload := map[string]string{"username": "dup", "password": "secret1"}

	if resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", payload); resp.StatusCode != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/register", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Username sudah digunakan" {
		t.Fatalf("duplicate register: unexpected error %v", body["error"])
	}
}

func TestIntegration_LoginFailures(t *testing.T) {
	app := newTestApp(t)
	srv := app.server(t)
	client := newJarClient(t)
	app.loginToken(t, "carol")

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{"username": "carol"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", resp.StatusCode)
	}
	if body["error"] != "Username dan password harus diisi" {
		t.Fatalf("missing password: unexpected error %v", body["error"])
	}

	resp, wrongPw := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"username": "carol", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", resp.StatusCode)
	}

	resp, unknown := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"username": "nobody", "password": "password1",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: expected 401, got %d", resp.StatusCode)
	}
	if wrongPw["error"] != unknown["error"] {
		t.Fatalf("expected identical errors, got %v and %v", wrongPw["error"], unknown["error"])
	}
}

func TestIntegration_LoginWithForm(t *testing.T) {
	app := newTestApp(t)
	srv := app.server(t)
	app.loginToken(t, "formuser")

	resp, err := http.PostForm(srv.URL+"/api/login", url.Values{
		"username": {"formuser"},
		"password": {"password1"},
	})
	if err != nil {
		t.Fatalf("POST /api/login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("form login: expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_InvalidJSONBody(t *testing.T) {
	srv := newTestApp(t).server(t)

	resp, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /api/register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}

func TestIntegration_CheckAuthAnonymous(t *testing.T) {
	srv := newTestApp(t).server(t)

	resp, body := doJSON(t, newJarClient(t), http.MethodGet, srv.URL+"/api/check-auth", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["authenticated"] != false {
		t.Fatalf("expected authenticated=false, got %v", body)
	}
	if _, ok := body["user"]; ok {
		t.Fatal("expected no user for anonymous check")
	}
}

func TestIntegration_CommentsRequireSession(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/comments", "Anda harus login untuk melihat comment"},
		{http.MethodPost, "/api/comments", "Anda harus login untuk membuat comment"},
		{http.MethodDelete, "/api/comments/1", "Anda harus login untuk menghapus comment"},
	}
	for _, tc := range tests {
		resp, body := doJSON(t, client, tc.method, srv.URL+tc.path, map[string]string{"content": "x"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		if body["error"] != tc.want {
			t.Fatalf("%s %s: expected %q, got %v", tc.method, tc.path, tc.want, body["error"])
		}
	}
}

func TestIntegration_CommentContentBoundaries(t *testing.T) {
	srv := newTestApp(t).server(t)
	client := newJarClient(t)
	doJSON(t, client, http.MethodPost, srv.URL+"/api/register", map[string]string{
		"username": "writer", "password": "secret1",
	})

	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/comments", map[string]string{
		"content": strings.Repeat("a", 500),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("500 chars: expected 200, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/comments", map[string]string{
		"content": strings.Repeat("a", 501),
	})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Comment maksimal 500 karakter" {
		t.Fatalf("501 chars: expected 400, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/comments", map[string]string{
		"content": "   ",
	})
	if resp.StatusCode != http.StatusBadRequest || body["error"] != "Comment tidak boleh kosong" {
		t.Fatalf("blank: expected 400, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/comments", map[string]string{
		"content": "  hi  ",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("padded: expected 200, got %d", resp.StatusCode)
	}
	if c, _ := body["comment"].(map[string]any); c["content"] != "hi" {
		t.Fatalf("padded: expected trimmed content, got %v", c["content"])
	}
}

func TestIntegration_DeleteComment(t *testing.T) {
	srv := newTestApp(t).server(t)
	owner := newJarClient(t)
	other := newJarClient(t)

	doJSON(t, owner, http.MethodPost, srv.URL+"/api/register", map[string]string{"username": "owner", "password": "secret1"})
	doJSON(t, other, http.MethodPost, srv.URL+"/api/register", map[string]string{"username": "other", "password": "secret1"})

	_, body := doJSON(t, owner, http.MethodPost, srv.URL+"/api/comments", map[string]string{"content": "mine"})
	comment, _ := body["comment"].(map[string]any)
	id := strconv.FormatInt(int64(comment["id"].(float64)), 10)

	resp, _ := doJSON(t, other, http.MethodDelete, srv.URL+"/api/comments/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, other, http.MethodDelete, srv.URL+"/api/comments/"+id, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", resp.StatusCode)
	}
	if body["error"] != "Anda tidak memiliki izin untuk menghapus comment ini" {
		t.Fatalf("non-owner: unexpected error %v", body["error"])
	}

	resp, _ = doJSON(t, owner, http.MethodDelete, srv.URL+"/api/comments/"+id, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("owner: expected 204, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, owner, http.MethodDelete, srv.URL+"/api/comments/"+id, nil)
	if resp.StatusCode != http.StatusNotFound || body["error"] != "Comment tidak ditemukan" {
		t.Fatalf("deleted: expected 404, got %d (%v)", resp.StatusCode, body)
	}

	_, body = doJSON(t, owner, http.MethodGet, srv.URL+"/api/comments", nil)
	if list, _ := body["comments"].([]any); len(list) != 0 {
		t.Fatalf("expected no comments after delete, got %v", list)
	}
}
