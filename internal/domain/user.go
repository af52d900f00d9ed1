package domain

import (
	"context"
	"time"
)

// User represents a registered player of the arena.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Age          *int
	College      *string
	ProfilePic   *string // storage key of the uploaded picture, nil if none
	Points       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeaderboardEntry is the (username, points) projection used for ranking.
// Rank is 1-based position after sorting by points descending.
type LeaderboardEntry struct {
	Username string
	Points   int
	Rank     int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// CompleteTask records taskID as completed for the user and adds points
	// to their total in a single transaction. The insert and the increment
	// are guarded together: if the task is already recorded the call returns
	// ErrTaskCompleted and the point total is untouched. Returns the new total.
	CompleteTask(ctx context.Context, userID int64, taskID, taskTitle string, points int) (int, error)

	CompletedTasks(ctx context.Context, userID int64) ([]string, error)

	// Leaderboard returns up to limit users ordered by points descending.
	// Ties keep insertion order. Rank is left for the caller to assign.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
