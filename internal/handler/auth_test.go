package handler_test

import (
	"net/http"
	"testing"
)

func TestAuthAPI_Register(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/register", map[string]any{
		"username": "apiuser",
		"email":    "api@example.com",
		"password": "password123",
		"age":      22,
		"college":  "IIT Madras",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// The auth cookie mirrors the token.
	var hasCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			hasCookie = true
		}
	}
	if !hasCookie {
		t.Fatal("expected auth_token cookie on register")
	}

	body := decodeBody(t, resp)
	if body["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	user := body["user"].(map[string]any)
	if user["email"] != "api@example.com" {
		t.Fatalf("unexpected email: %v", user["email"])
	}
	if user["age"].(float64) != 22 {
		t.Fatalf("unexpected age: %v", user["age"])
	}
	if user["points"].(float64) != 0 {
		t.Fatalf("expected 0 starting points, got %v", user["points"])
	}
	if _, exposed := user["passwordHash"]; exposed {
		t.Fatal("password hash must not appear in responses")
	}
}

func TestAuthAPI_Register_Duplicate(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv, "dup", "dup@example.com")

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/register", map[string]any{
		"username": "dup2",
		"email":    "dup@example.com",
		"password": "password456",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "User already exists with this email" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthAPI_Register_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/register", map[string]any{
		"username": "incomplete",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Required fields are missing" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthAPI_Login(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv, "loginuser", "login@example.com")

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if token, _ := body["token"].(string); token == "" {
		t.Fatal("expected token in login response")
	}
	user := body["user"].(map[string]any)
	if user["username"] != "loginuser" {
		t.Fatalf("unexpected username: %v", user["username"])
	}
}

func TestAuthAPI_Login_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	registerUser(t, srv, "wrongpw", "wrongpw@example.com")

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/login", map[string]any{
		"email":    "wrongpw@example.com",
		"password": "not-it",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "Invalid password" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthAPI_Login_UnknownEmail(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "User not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAuthAPI_Me(t *testing.T) {
	srv := newTestServer(t)

	token := registerUser(t, srv, "meuser", "me@example.com")

	resp, err := srv.Client().Do(authedRequest(t, http.MethodGet, srv.URL+"/api/auth/me", token, nil))
	if err != nil {
		t.Fatalf("GET /api/auth/me: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	if user["email"] != "me@example.com" {
		t.Fatalf("unexpected email: %v", user["email"])
	}
}

func TestAuthAPI_Logout_ClearsCookie(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Post(srv.URL+"/api/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/auth/logout: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected auth_token cookie to be expired")
	}
}
