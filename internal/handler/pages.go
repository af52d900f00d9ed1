package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/bis-arena/internal/domain"
	"github.com/msomdec/bis-arena/internal/service"
	"github.com/msomdec/bis-arena/internal/view"
)

// PageHandler renders the server-side pages of the arena.
type PageHandler struct {
	auth     *service.AuthService
	scores   *service.ScoreService
	hub      *service.HubService
	profiles *service.ProfileService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(auth *service.AuthService, scores *service.ScoreService, hub *service.HubService, profiles *service.ProfileService) *PageHandler {
	return &PageHandler{auth: auth, scores: scores, hub: hub, profiles: profiles}
}

// HandleHome renders the landing page.
// GET /
func (p *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	username := ""
	if claims := IdentityFromContext(r.Context()); claims != nil {
		if user, err := p.auth.GetUserByID(r.Context(), claims.UserID); err == nil {
			username = user.Username
		}
	}
	view.HomePage(username).Render(r.Context(), w)
}

// HandleLoginPage renders the login form.
// GET /login
func (p *PageHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	view.LoginPage().Render(r.Context(), w)
}

// HandleSignUpPage renders the registration form.
// GET /signup
func (p *PageHandler) HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	view.SignUpPage().Render(r.Context(), w)
}

// HandleDashboard renders the mission dashboard for the signed-in user.
// GET /dashboard
func (p *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := IdentityFromContext(r.Context())
	user, err := p.auth.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		p.renderError(w, r, err)
		return
	}

	completed, err := p.scores.CompletedTasks(r.Context(), user.Email)
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	view.DashboardPage(user.Username, user.Points, p.scores.Missions(), done).Render(r.Context(), w)
}

// HandleLeaderboardPage renders the leaderboard.
// GET /leaderboard
func (p *PageHandler) HandleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	entries, err := p.scores.Leaderboard(r.Context())
	if err != nil {
		p.renderError(w, r, err)
		return
	}
	view.LeaderboardPage(entries).Render(r.Context(), w)
}

// HandleHubPage renders the learning hub with its search box.
// GET /hub
func (p *PageHandler) HandleHubPage(w http.ResponseWriter, r *http.Request) {
	view.HubPage(p.hub.Categories()).Render(r.Context(), w)
}

// HandleProfilePage renders the signed-in user's profile.
// GET /profile
func (p *PageHandler) HandleProfilePage(w http.ResponseWriter, r *http.Request) {
	claims := IdentityFromContext(r.Context())
	user, err := p.auth.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		p.renderError(w, r, err)
		return
	}

	picURL := ""
	if user.ProfilePic != nil {
		picURL = ProfilePicURL(*user.ProfilePic)
	}
	view.ProfilePage(user, picURL).Render(r.Context(), w)
}

func (p *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	slog.Error("render page", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
