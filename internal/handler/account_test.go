package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/accountd/accountd-go/internal/middleware"
	"github.com/accountd/accountd-go/internal/repository"
	"github.com/accountd/accountd-go/internal/service"
)

const testSecret = "test-secret"

// newTestRouter wires handlers and middleware the same way main does, over an
// in-memory repository.
func newTestRouter() http.Handler {
	repo := repository.NewMemoryRepository()
	svc := service.NewAccountService(repo, testSecret, time.Hour)
	h := NewAccountHandler(svc)

	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Delete("/delete", h.HandleDelete)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Get("/users", h.HandleProfile)
		r.Put("/update/{email}", h.HandleUpdatePassword)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func tokenFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding token response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token in response")
	}
	return resp.Token
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	tokenFrom(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	token := tokenFrom(t, rec)

	rec = doJSON(t, router, http.MethodGet, "/users", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var profile struct {
		Email        string `json:"email"`
		PasswordHash string `json:"password_hash"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.Email != "a@x.com" {
		t.Errorf("profile email = %q, want %q", profile.Email, "a@x.com")
	}
	if profile.PasswordHash == "" || profile.PasswordHash == "pw1" {
		t.Errorf("profile password_hash = %q, want a hash, never the plaintext", profile.PasswordHash)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{
		`{"email":"","password":"pw1"}`,
		`{"email":"a@x.com","password":""}`,
		`{}`,
	} {
		rec := doJSON(t, router, http.MethodPost, "/register", body, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("register %s status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestRegisterInvalidJSON(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{not json`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("register status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw2"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("second register status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "wrong credentials") {
		t.Errorf("login body = %s, want wrong credentials message", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Errorf("login body = %s, must not contain a token", rec.Body.String())
	}
}

func TestLoginWrongPasswordSameResponse(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	wrongPassword := doJSON(t, router, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw2"}`, "")
	unknownEmail := doJSON(t, router, http.MethodPost, "/login", `{"email":"b@x.com","password":"pw2"}`, "")

	// Both failure modes are indistinguishable to the caller.
	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want both %d", wrongPassword.Code, unknownEmail.Code, http.StatusUnauthorized)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("bodies differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestProfileWithoutToken(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/users", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if strings.Contains(rec.Body.String(), "@") {
		t.Errorf("profile body = %s, must not leak account data", rec.Body.String())
	}
}

func TestUpdatePassword(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}
	token := tokenFrom(t, rec)

	rec = doJSON(t, router, http.MethodPut, "/update/a@x.com", `{"password":"pw2"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "password updated") {
		t.Errorf("update body = %s, want plain success text", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw2"}`, "")
	if rec.Code != http.StatusOK {
		t.Errorf("login with new password status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doJSON(t, router, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with old password status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUpdatePasswordRequiresToken(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPut, "/update/a@x.com", `{"password":"pw2"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("update status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUpdatePasswordWrongOwner(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register a status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = doJSON(t, router, http.MethodPost, "/register", `{"email":"b@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register b status = %d, want %d", rec.Code, http.StatusCreated)
	}
	tokenB := tokenFrom(t, rec)

	// b's token must not change a's password.
	rec = doJSON(t, router, http.MethodPut, "/update/a@x.com", `{"password":"hijacked"}`, tokenB)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("update status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = doJSON(t, router, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want %d (password must be unchanged)", rec.Code, http.StatusOK)
	}
}

func TestDelete(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/register", `{"email":"a@x.com","password":"pw1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = doJSON(t, router, http.MethodDelete, "/delete", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/delete", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteMissingEmail(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodDelete, "/delete", `{}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
