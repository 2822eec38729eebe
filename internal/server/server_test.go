package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/resolveapp/resolve/internal/auth"
	"github.com/resolveapp/resolve/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "resolve-server-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := httptest.NewServer(New(store, jwtManager).Router([]string{"*"}))
	t.Cleanup(srv.Close)

	return srv
}

// doJSON issues a request with an optional bearer token and decodes the JSON
// response into out (when out is non-nil).
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, srv *httptest.Server, email, name string) (userID, token string) {
	t.Helper()

	var session struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       email,
		"displayName": name,
		"password":    "longenoughpassword",
	}, &session)
	if status != http.StatusCreated {
		t.Fatalf("register %s: got status %d", email, status)
	}
	return session.User.ID, session.Token
}

func TestServer_Health(t *testing.T) {
	srv := setupTestServer(t)

	var body map[string]string
	status := doJSON(t, srv, http.MethodGet, "/healthz", "", nil, &body)
	if status != http.StatusOK {
		t.Fatalf("got status %d", status)
	}
	if body["status"] != "ok" {
		t.Errorf("got %+v", body)
	}
}

func TestServer_AuthRequired(t *testing.T) {
	srv := setupTestServer(t)

	status := doJSON(t, srv, http.MethodGet, "/api/balance/summary", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no token: got status %d, want 401", status)
	}

	status = doJSON(t, srv, http.MethodGet, "/api/balance/summary", "not-a-token", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("bad token: got status %d, want 401", status)
	}
}

func TestServer_ExpenseLifecycle(t *testing.T) {
	srv := setupTestServer(t)

	aliceID, aliceToken := registerUser(t, srv, "alice@example.com", "Alice")
	bobID, bobToken := registerUser(t, srv, "bob@example.com", "Bob")

	var created struct {
		Expense struct {
			ID     string  `json:"id"`
			PaidBy string  `json:"paidBy"`
			Amount float64 `json:"amount"`
		} `json:"expense"`
		Shares []struct {
			UserID      string  `json:"userId"`
			ShareAmount float64 `json:"shareAmount"`
			IsSettled   bool    `json:"isSettled"`
		} `json:"shares"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/expenses", aliceToken, map[string]any{
		"description": "Dinner",
		"amount":      100,
		"paidBy":      "You",
		"splits": []map[string]any{
			{"user": "You", "percentage": 50},
			{"user": "Bob", "percentage": 50},
		},
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create expense: got status %d", status)
	}
	if created.Expense.PaidBy != aliceID {
		t.Errorf("paidBy: got %s, want %s", created.Expense.PaidBy, aliceID)
	}
	if len(created.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(created.Shares))
	}
	for _, share := range created.Shares {
		switch share.UserID {
		case aliceID:
			if !share.IsSettled {
				t.Error("payer's share should be settled")
			}
		case bobID:
			if share.IsSettled {
				t.Error("Bob's share should be pending")
			}
			if share.ShareAmount != 50 {
				t.Errorf("Bob's share: got %f, want 50", share.ShareAmount)
			}
		default:
			t.Errorf("unexpected share user %q", share.UserID)
		}
	}

	t.Run("balance summary", func(t *testing.T) {
		var summary struct {
			TotalOwed      float64 `json:"totalOwed"`
			TotalOwedToYou float64 `json:"totalOwedToYou"`
			NetBalance     float64 `json:"netBalance"`
		}
		status := doJSON(t, srv, http.MethodGet, "/api/balance/summary", bobToken, nil, &summary)
		if status != http.StatusOK {
			t.Fatalf("got status %d", status)
		}
		if summary.TotalOwed != 50 || summary.NetBalance != -50 {
			t.Errorf("bob summary: %+v", summary)
		}
	})

	t.Run("update by non-creator", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodPut, "/api/expenses/"+created.Expense.ID, bobToken, map[string]string{
			"description": "Hijacked",
		}, nil)
		if status != http.StatusNotFound {
			t.Errorf("got status %d, want 404", status)
		}
	})

	t.Run("update by creator", func(t *testing.T) {
		var updated struct {
			Description string `json:"description"`
		}
		status := doJSON(t, srv, http.MethodPut, "/api/expenses/"+created.Expense.ID, aliceToken, map[string]string{
			"description": "Team dinner",
		}, &updated)
		if status != http.StatusOK {
			t.Fatalf("got status %d", status)
		}
		if updated.Description != "Team dinner" {
			t.Errorf("description: got %q", updated.Description)
		}
	})

	t.Run("activity feed", func(t *testing.T) {
		var items []struct {
			Type string `json:"type"`
			User string `json:"user"`
		}
		status := doJSON(t, srv, http.MethodGet, "/api/activity/recent", bobToken, nil, &items)
		if status != http.StatusOK {
			t.Fatalf("got status %d", status)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 feed item, got %d", len(items))
		}
		if items[0].Type != "expense_owed" || items[0].User != "Alice paid" {
			t.Errorf("got item %+v", items[0])
		}
	})

	t.Run("delete", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodDelete, "/api/expenses/"+created.Expense.ID, aliceToken, nil, nil)
		if status != http.StatusNoContent {
			t.Fatalf("got status %d, want 204", status)
		}
		status = doJSON(t, srv, http.MethodGet, "/api/expenses/"+created.Expense.ID, aliceToken, nil, nil)
		if status != http.StatusNotFound {
			t.Errorf("got status %d, want 404", status)
		}
	})
}

func TestServer_ExpenseValidation(t *testing.T) {
	srv := setupTestServer(t)

	_, token := registerUser(t, srv, "alice@example.com", "Alice")
	registerUser(t, srv, "bob@example.com", "Bob")

	var errBody struct {
		Message string `json:"message"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/expenses", token, map[string]any{
		"description": "Dinner",
		"amount":      100,
		"paidBy":      "You",
		"splits": []map[string]any{
			{"user": "You", "percentage": 50},
			{"user": "Bob", "percentage": 40},
		},
	}, &errBody)
	if status != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", status)
	}
	if errBody.Message == "" {
		t.Error("expected a validation message")
	}
}

func TestServer_FriendFlow(t *testing.T) {
	srv := setupTestServer(t)

	_, aliceToken := registerUser(t, srv, "alice@example.com", "Alice")
	_, bobToken := registerUser(t, srv, "bob@example.com", "Bob")

	var sent struct {
		FriendshipID string `json:"friendshipId"`
		Status       string `json:"status"`
	}
	status := doJSON(t, srv, http.MethodPost, "/api/friends/request", aliceToken, map[string]string{
		"identifier": "bob@example.com",
	}, &sent)
	if status != http.StatusCreated {
		t.Fatalf("send request: got status %d", status)
	}
	if sent.Status != "pending" {
		t.Errorf("status: got %q, want pending", sent.Status)
	}

	var pending []struct {
		User struct {
			DisplayName string `json:"displayName"`
		} `json:"user"`
	}
	status = doJSON(t, srv, http.MethodGet, "/api/friends/pending", bobToken, nil, &pending)
	if status != http.StatusOK {
		t.Fatalf("pending: got status %d", status)
	}
	if len(pending) != 1 || pending[0].User.DisplayName != "Alice" {
		t.Fatalf("pending: got %+v", pending)
	}

	status = doJSON(t, srv, http.MethodPut, "/api/friends/"+sent.FriendshipID, bobToken, map[string]string{
		"action": "accept",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("accept: got status %d", status)
	}

	var friends []struct {
		Status string `json:"status"`
	}
	status = doJSON(t, srv, http.MethodGet, "/api/friends", aliceToken, nil, &friends)
	if status != http.StatusOK {
		t.Fatalf("list friends: got status %d", status)
	}
	if len(friends) != 1 || friends[0].Status != "accepted" {
		t.Errorf("friends: got %+v", friends)
	}
}
