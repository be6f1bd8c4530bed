package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/notehub/internal/cache"
	"github.com/geocoder89/notehub/internal/config"
	"github.com/geocoder89/notehub/internal/domain/note"
	apphttp "github.com/geocoder89/notehub/internal/http"
	"github.com/geocoder89/notehub/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		Env:                 "test",
		Port:                0,
		JWTSecret:           "test-secret-key",
		JWTAccessTTLSeconds: 3600,
		CacheTTLSeconds:     30,
		AllowedOrigins:      []string{"http://localhost:3000"},
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	users := memory.NewUsersRepo()
	notes := memory.NewNotesRepo()
	store := cache.NewMemory(30 * time.Second)

	return apphttp.NewRouterWithStores(logger, users, notes, store, testConfig())
}

// runs a request and returns the recorder

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

type notesResponse struct {
	Notes []note.Note `json:"notes"`
}

func registerAndLogin(t *testing.T, router http.Handler, username, email, password string) loginResponse {
	t.Helper()

	body := `{"username":"` + username + `","email":"` + email + `","password":"` + password + `"}`

	w := doRequest(router, http.MethodPost, "/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	loginBody := `{"email":"` + email + `","password":"` + password + `"}`

	w = doRequest(router, http.MethodPost, "/login", loginBody, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp loginResponse
	mustReadJSON(t, w, &resp)

	if resp.Token == "" {
		t.Fatalf("login expected a token, body=%s", w.Body.String())
	}

	return resp
}

func TestNotesLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	login := registerAndLogin(t, router, "alice", "alice@x.com", "pw123-secret")

	if login.User.Username != "alice" || login.User.Email != "alice@x.com" {
		t.Fatalf("unexpected login user payload: %+v", login.User)
	}

	// create a note

	w := doRequest(router, http.MethodPost, "/notes", `{"title":"hello","content":"world"}`, login.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create note got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	mustReadJSON(t, w, &created)

	if created.ID == "" {
		t.Fatalf("create note expected an id, body=%s", w.Body.String())
	}

	// list contains exactly that note

	w = doRequest(router, http.MethodGet, "/notes", "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("list notes got status %d, body=%s", w.Code, w.Body.String())
	}

	var listed notesResponse
	mustReadJSON(t, w, &listed)

	if len(listed.Notes) != 1 {
		t.Fatalf("expected exactly 1 note, got %d", len(listed.Notes))
	}
	if listed.Notes[0].ID != created.ID || listed.Notes[0].Title != "hello" || listed.Notes[0].Content != "world" {
		t.Fatalf("unexpected listed note: %+v", listed.Notes[0])
	}

	// fetch it directly

	w = doRequest(router, http.MethodGet, "/notes/"+created.ID, "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("get note got status %d, body=%s", w.Code, w.Body.String())
	}

	var fetched note.Note
	mustReadJSON(t, w, &fetched)

	if !fetched.CreatedOn.Equal(fetched.LastUpdate) {
		t.Fatalf("fresh note should have created_on == last_update: %+v", fetched)
	}

	// update it

	w = doRequest(router, http.MethodPut, "/notes/"+created.ID, `{"title":"hello2","content":"world2"}`, login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("update note got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/notes/"+created.ID, "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("get after update got status %d, body=%s", w.Code, w.Body.String())
	}

	var updated note.Note
	mustReadJSON(t, w, &updated)

	if updated.Title != "hello2" || updated.Content != "world2" {
		t.Fatalf("update did not stick: %+v", updated)
	}
	if !updated.CreatedOn.Equal(fetched.CreatedOn) {
		t.Fatalf("created_on moved on update: %+v", updated)
	}
	if !updated.LastUpdate.After(updated.CreatedOn) {
		t.Fatalf("last_update should move past created_on after update: %+v", updated)
	}

	// delete and verify it is gone

	w = doRequest(router, http.MethodDelete, "/notes/"+created.ID, "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete note got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodGet, "/notes", "", login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("list after delete got status %d, body=%s", w.Code, w.Body.String())
	}

	var afterDelete notesResponse
	mustReadJSON(t, w, &afterDelete)

	if len(afterDelete.Notes) != 0 {
		t.Fatalf("expected empty list after delete, got %d notes", len(afterDelete.Notes))
	}

	w = doRequest(router, http.MethodGet, "/notes/"+created.ID, "", login.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted note got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestNotesAreInvisibleAcrossUsers(t *testing.T) {
	router := setupTestRouter(t)

	alice := registerAndLogin(t, router, "alice", "alice@x.com", "pw123-secret")
	bob := registerAndLogin(t, router, "bob", "bob@x.com", "pw456-secret")

	w := doRequest(router, http.MethodPost, "/notes", `{"title":"private","content":"alice only"}`, alice.Token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create note got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	mustReadJSON(t, w, &created)

	// bob cannot see, change or delete alice's note

	w = doRequest(router, http.MethodGet, "/notes/"+created.ID, "", bob.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user get got status %d, want 404", w.Code)
	}

	w = doRequest(router, http.MethodPut, "/notes/"+created.ID, `{"title":"x","content":"y"}`, bob.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user update got status %d, want 404", w.Code)
	}

	w = doRequest(router, http.MethodDelete, "/notes/"+created.ID, "", bob.Token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete got status %d, want 404", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/notes", "", bob.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("bob list got status %d, body=%s", w.Code, w.Body.String())
	}

	var bobNotes notesResponse
	mustReadJSON(t, w, &bobNotes)

	if len(bobNotes.Notes) != 0 {
		t.Fatalf("bob should see no notes, got %d", len(bobNotes.Notes))
	}

	// and alice's note is intact

	w = doRequest(router, http.MethodGet, "/notes/"+created.ID, "", alice.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("alice get got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := setupTestRouter(t)

	paths := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/notes", ""},
		{http.MethodPost, "/notes", `{"title":"t","content":"c"}`},
		{http.MethodGet, "/notes/some-id", ""},
		{http.MethodPut, "/notes/some-id", `{"title":"t","content":"c"}`},
		{http.MethodDelete, "/notes/some-id", ""},
	}

	for _, p := range paths {
		w := doRequest(router, p.method, p.path, p.body, "")

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token got status %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	router := setupTestRouter(t)

	body := `{"username":"alice","email":"alice@x.com","password":"pw123-secret"}`

	w := doRequest(router, http.MethodPost, "/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("first register got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/register", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second register got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := setupTestRouter(t)

	registerAndLogin(t, router, "alice", "alice@x.com", "pw123-secret")

	w := doRequest(router, http.MethodPost, "/login", `{"email":"alice@x.com","password":"wrong-password"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password got status %d, want 401", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/login", `{"email":"nobody@x.com","password":"pw123-secret"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email got status %d, want 401", w.Code)
	}
}
