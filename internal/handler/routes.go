package handler

import (
	"net/http"

	"github.com/msomdec/bis-arena/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	profiles *service.ProfileService,
	scores *service.ScoreService,
	hub *service.HubService,
	authLimiter *service.RateLimiter,
	cookieSecure bool,
) {
	authH := NewAuthHandler(auth, authLimiter, cookieSecure)
	profileH := NewProfileHandler(profiles)
	taskH := NewTaskHandler(scores)
	leaderboardH := NewLeaderboardHandler(scores)
	hubH := NewHubHandler(hub)
	uploadH := NewUploadHandler(profiles)
	pages := NewPageHandler(auth, scores, hub, profiles)

	// Auth API.
	mux.HandleFunc("POST /api/auth/register", authH.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authH.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authH.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authH.HandleMe)))

	// Profile API.
	mux.Handle("GET /api/user/profile/{email}", RequireAuth(auth, http.HandlerFunc(profileH.HandleGet)))
	mux.Handle("PUT /api/user/profile/{email}", RequireAuth(auth, http.HandlerFunc(profileH.HandleUpdate)))

	// Tasks and leaderboard API.
	mux.Handle("GET /api/tasks", RequireAuth(auth, http.HandlerFunc(taskH.HandleList)))
	mux.Handle("POST /api/tasks/complete", RequireAuth(auth, http.HandlerFunc(taskH.HandleComplete)))
	mux.Handle("GET /api/leaderboard", RequireAuth(auth, http.HandlerFunc(leaderboardH.HandleGet)))

	// Learning hub API.
	mux.Handle("GET /api/hub", RequireAuth(auth, http.HandlerFunc(hubH.HandleCategories)))

	// Uploaded profile pictures, served statically.
	mux.HandleFunc("GET /uploads/profiles/{key}", uploadH.HandleServe)

	// Server-rendered pages.
	mux.Handle("GET /{$}", OptionalAuth(auth, http.HandlerFunc(pages.HandleHome)))
	mux.HandleFunc("GET /login", pages.HandleLoginPage)
	mux.HandleFunc("GET /signup", pages.HandleSignUpPage)
	mux.Handle("GET /dashboard", RequirePage(auth, http.HandlerFunc(pages.HandleDashboard)))
	mux.Handle("GET /leaderboard", RequirePage(auth, http.HandlerFunc(pages.HandleLeaderboardPage)))
	mux.Handle("GET /hub", RequirePage(auth, http.HandlerFunc(pages.HandleHubPage)))
	mux.Handle("GET /hub/search", RequirePage(auth, http.HandlerFunc(hubH.HandleSearch)))
	mux.Handle("GET /profile", RequirePage(auth, http.HandlerFunc(pages.HandleProfilePage)))

	// Operational endpoints.
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
}
