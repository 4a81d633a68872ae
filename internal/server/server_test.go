package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"todoapi/internal/auth"
	"todoapi/internal/models"
)

const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    role TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    priority INTEGER NOT NULL,
    complete BOOLEAN NOT NULL DEFAULT FALSE,
    owner_id INTEGER NOT NULL REFERENCES users (id)
);
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewServer(db, tokens, nil, zap.NewNop())
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, srv *Server, username, email, password string) {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/auth/create_user", "", map[string]string{
		"username":     username,
		"email":        email,
		"first_name":   "Test",
		"last_name":    "User",
		"password":     password,
		"role":         "user",
		"phone_number": "555-0100",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create_user returned %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Errorf("create_user returned a body: %s", w.Body.String())
	}
}

func loginUser(t *testing.T, srv *Server, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse token response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want %q", resp.TokenType, "bearer")
	}
	return resp.AccessToken
}

func TestRegisterLoginAndTodoFlow(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv, "alice", "alice@x.com", "wonderland")
	aliceToken := loginUser(t, srv, "alice", "wonderland")

	// Create a task as alice
	w := doJSON(t, srv, http.MethodPost, "/todo/todo", aliceToken, map[string]interface{}{
		"title":       "Buy milk",
		"description": "get milk",
		"priority":    2,
		"complete":    false,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create todo returned %d: %s", w.Code, w.Body.String())
	}

	var created models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse created todo: %v", err)
	}
	if created.ID == 0 || created.Title != "Buy milk" || created.Priority != 2 {
		t.Errorf("created todo = %+v", created)
	}

	// List contains exactly the one task
	w = doJSON(t, srv, http.MethodGet, "/todo/", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d: %s", w.Code, w.Body.String())
	}
	var todos []models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
		t.Fatalf("failed to parse todo list: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Buy milk" {
		t.Fatalf("list = %+v, want exactly one todo titled Buy milk", todos)
	}

	// Read-by-id round trips the stored fields
	path := "/todo/todo/" + strconv.FormatInt(created.ID, 10)
	w = doJSON(t, srv, http.MethodGet, path, aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get returned %d: %s", w.Code, w.Body.String())
	}
	var got models.Todo
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse todo: %v", err)
	}
	if got != created {
		t.Errorf("get = %+v, want %+v", got, created)
	}

	// Bob cannot see alice's task; the response is indistinguishable from
	// a missing record.
	registerUser(t, srv, "bob", "bob@x.com", "builder")
	bobToken := loginUser(t, srv, "bob", "builder")

	w = doJSON(t, srv, http.MethodGet, path, bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user get returned %d, want 404", w.Code)
	}
	w = doJSON(t, srv, http.MethodPut, path, bobToken, map[string]interface{}{
		"title": "stolen", "description": "", "priority": 1, "complete": true,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user update returned %d, want 404", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, path, bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user delete returned %d, want 404", w.Code)
	}

	// Alice's own update and delete succeed with 204
	w = doJSON(t, srv, http.MethodPut, path, aliceToken, map[string]interface{}{
		"title": "Buy oat milk", "description": "the barista kind", "priority": 4, "complete": true,
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("update returned %d, want 204", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, path, aliceToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete returned %d, want 204", w.Code)
	}
	w = doJSON(t, srv, http.MethodGet, path, aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete returned %d, want 404", w.Code)
	}
}

func TestAuthFailures(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "alice@x.com", "wonderland")

	t.Run("wrong password", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"hatter"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("token returned %d, want 401", w.Code)
		}
		if strings.Contains(w.Body.String(), "access_token") {
			t.Error("401 response carries a token")
		}
	})

	t.Run("duplicate registration", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/auth/create_user", "", map[string]string{
			"username": "alice", "email": "alice2@x.com", "first_name": "A",
			"last_name": "B", "password": "x", "role": "user",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("duplicate create_user returned %d, want 409", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/todo/", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("list without token returned %d, want 401", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/todo/", "garbage", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("list with garbage token returned %d, want 401", w.Code)
		}
	})
}

func TestTodoValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice", "alice@x.com", "wonderland")
	token := loginUser(t, srv, "alice", "wonderland")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"short title", map[string]interface{}{"title": "ab", "description": "", "priority": 2}},
		{"long description", map[string]interface{}{"title": "abc", "description": strings.Repeat("x", 1501), "priority": 2}},
		{"priority out of range", map[string]interface{}{"title": "abc", "description": "", "priority": 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/todo/todo", token, tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("create returned %d, want 422", w.Code)
			}

			// Nothing was persisted
			w = doJSON(t, srv, http.MethodGet, "/todo/", token, nil)
			var todos []models.Todo
			if err := json.Unmarshal(w.Body.Bytes(), &todos); err != nil {
				t.Fatalf("failed to parse todo list: %v", err)
			}
			if len(todos) != 0 {
				t.Errorf("invalid create persisted %d todos", len(todos))
			}
		})
	}
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("ping returned %d, want 200", w.Code)
	}
}
