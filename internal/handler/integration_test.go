package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/bis-arena/internal/handler"
	"github.com/msomdec/bis-arena/internal/repository/sqlite"
	"github.com/msomdec/bis-arena/internal/service"
	"golang.org/x/time/rate"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// Minimal PNG: signature bytes are enough for content sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Cost 4 and a generous limiter keep the suite fast.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	profiles := service.NewProfileService(db.Users(), db.FileStore(), 4)
	scores := service.NewScoreService(db.Users())
	hub := service.NewHubService()
	limiter := service.NewRateLimiter(rate.Limit(1000), 1000)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, profiles, scores, hub, limiter, false)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// registerUser registers through the API and returns the bearer token.
func registerUser(t *testing.T, srv *httptest.Server, username, email string) string {
	t.Helper()
	resp := postJSON(t, srv.Client(), srv.URL+"/api/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected token in register response")
	}
	return token
}

func authedRequest(t *testing.T, method, url, token string, body io.Reader) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestIntegration_RegisterCompleteLeaderboard(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	token := registerUser(t, srv, "integ", "integ@example.com")

	// The fresh account has no completed tasks.
	resp, err := client.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/tasks", token, nil))
	if err != nil {
		t.Fatalf("GET /api/tasks: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tasks: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if missions, ok := body["missions"].([]any); !ok || len(missions) != 3 {
		t.Fatalf("expected 3 missions, got %v", body["missions"])
	}
	if completed, ok := body["completedTasks"].([]any); !ok || len(completed) != 0 {
		t.Fatalf("expected empty completedTasks, got %v", body["completedTasks"])
	}

	// Complete task1 for 100 points.
	completeBody := map[string]any{"taskId": "task1", "taskTitle": "Complete Safety Standards Quiz", "points": 100}
	data, _ := json.Marshal(completeBody)
	resp, err = client.Do(authedRequest(t, http.MethodPost, srv.URL+"/api/tasks/complete", token, bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("POST /api/tasks/complete: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if pts, _ := body["points"].(float64); pts != 100 {
		t.Fatalf("expected 100 points, got %v", body["points"])
	}
	leaderboard, ok := body["leaderboard"].([]any)
	if !ok || len(leaderboard) != 1 {
		t.Fatalf("expected 1 leaderboard entry, got %v", body["leaderboard"])
	}
	top := leaderboard[0].(map[string]any)
	if top["username"] != "integ" || top["rank"].(float64) != 1 {
		t.Fatalf("unexpected top entry: %v", top)
	}

	// Completing the same task again is rejected and changes nothing.
	resp, err = client.Do(authedRequest(t, http.MethodPost, srv.URL+"/api/tasks/complete", token, bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("repeat POST /api/tasks/complete: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("repeat complete: expected 400, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	if body["message"] != "Task already completed" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	// The leaderboard endpoint agrees.
	resp, err = client.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/leaderboard", token, nil))
	if err != nil {
		t.Fatalf("GET /api/leaderboard: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	entries := body["leaderboard"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].(map[string]any)["points"].(float64) != 100 {
		t.Fatalf("expected 100 points on leaderboard, got %v", entries[0])
	}
}

func TestIntegration_LeaderboardTopTen(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	var token string
	for i := 0; i < 12; i++ {
		email := fmt.Sprintf("player%d@example.com", i)
		tok := registerUser(t, srv, fmt.Sprintf("player%d", i), email)
		data, _ := json.Marshal(map[string]any{"taskId": "task1", "taskTitle": "Quiz", "points": (i + 1) * 10})
		resp, err := client.Do(authedRequest(t, http.MethodPost, srv.URL+"/api/tasks/complete", tok, bytes.NewReader(data)))
		if err != nil {
			t.Fatalf("complete for %s: %v", email, err)
		}
		resp.Body.Close()
		token = tok
	}

	resp, err := client.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/leaderboard", token, nil))
	if err != nil {
		t.Fatalf("GET /api/leaderboard: %v", err)
	}
	body := decodeBody(t, resp)
	entries := body["leaderboard"].([]any)
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	first := entries[0].(map[string]any)
	if first["points"].(float64) != 120 || first["rank"].(float64) != 1 {
		t.Fatalf("unexpected first entry: %v", first)
	}
}

func TestIntegration_ProfileUpdateWithPicture(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	token := registerUser(t, srv, "picuser", "pic@example.com")

	// Upload a picture along with a username change.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("username", "renamed"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("profilePic", "avatar.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(pngBytes)
	mw.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/user/profile/pic@example.com", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT profile: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	if user["username"] != "renamed" {
		t.Fatalf("expected username renamed, got %v", user["username"])
	}
	picURL, _ := user["profilePic"].(string)
	if !strings.HasPrefix(picURL, "/uploads/profiles/") {
		t.Fatalf("unexpected profilePic URL: %q", picURL)
	}

	// The uploaded bytes are served back under /uploads.
	resp, err = client.Get(srv.URL + picURL)
	if err != nil {
		t.Fatalf("GET %s: %v", picURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("picture: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	served, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(served, pngBytes) {
		t.Fatal("served picture does not match upload")
	}
}

func TestIntegration_ProfileUpdate_RejectsNonImage(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	token := registerUser(t, srv, "textuser", "text@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("profilePic", "notes.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("just some plain text, not an image"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/user/profile/text@example.com", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT profile: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", resp.StatusCode)
	}
}

func TestIntegration_PagesRequireLogin(t *testing.T) {
	srv := newTestServer(t)
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	for _, path := range []string{"/dashboard", "/leaderboard", "/hub", "/profile"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: expected 303 redirect, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %s", path, loc)
		}
	}
}

func TestIntegration_DashboardWithCookie(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	token := registerUser(t, srv, "pageuser", "page@example.com")

	// Pages authenticate via the auth_token cookie fallback.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.StatusCode)
	}
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "pageuser") {
		t.Fatal("expected dashboard to greet the user by name")
	}
}

func TestIntegration_HubSearchAPI(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	token := registerUser(t, srv, "hubuser", "hub@example.com")

	resp, err := client.Do(authedRequest(t, http.MethodGet, srv.URL+"/api/hub?search=workplace", token, nil))
	if err != nil {
		t.Fatalf("GET /api/hub: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hub: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	cats := body["categories"].([]any)
	if len(cats) != 1 {
		t.Fatalf("expected 1 category for workplace, got %d", len(cats))
	}
}
