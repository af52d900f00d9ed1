package service

import (
	"context"
	"fmt"

	"github.com/msomdec/bis-arena/internal/domain"
)

// LeaderboardSize is how many users the leaderboard shows.
const LeaderboardSize = 10

// missionCatalog is the static set of missions shown on the dashboard.
// Completion requests carry the point value chosen by the client; the
// catalog does not validate it.
var missionCatalog = []domain.Mission{
	{ID: "task1", Title: "Complete Safety Standards Quiz", Points: 100},
	{ID: "task2", Title: "Watch 2 Videos on Quality Control", Points: 50},
	{ID: "task3", Title: "Find 3 Easter Eggs", Points: 75},
}

// ScoreService records task completions and computes the leaderboard.
type ScoreService struct {
	users domain.UserRepository
}

// NewScoreService creates a new ScoreService.
func NewScoreService(users domain.UserRepository) *ScoreService {
	return &ScoreService{users: users}
}

// Missions returns the static mission catalog.
func (s *ScoreService) Missions() []domain.Mission {
	return missionCatalog
}

// CompleteTask marks taskID as done for the user with the given email and
// awards points. Completing the same task twice returns ErrTaskCompleted
// and leaves the total unchanged. Returns the new point total and the
// refreshed leaderboard.
func (s *ScoreService) CompleteTask(ctx context.Context, email, taskID, taskTitle string, points int) (int, []domain.LeaderboardEntry, error) {
	if taskID == "" {
		return 0, nil, fmt.Errorf("%w: task id is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return 0, nil, err
	}

	total, err := s.users.CompleteTask(ctx, user.ID, taskID, taskTitle, points)
	if err != nil {
		return 0, nil, err
	}

	leaderboard, err := s.Leaderboard(ctx)
	if err != nil {
		return 0, nil, err
	}
	return total, leaderboard, nil
}

// CompletedTasks returns the task ids the user has finished.
func (s *ScoreService) CompletedTasks(ctx context.Context, email string) ([]string, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.users.CompletedTasks(ctx, user.ID)
}

// Leaderboard returns the top users by points with ranks assigned by
// 1-based position. Recomputed from the user store on every call.
func (s *ScoreService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.users.Leaderboard(ctx, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
