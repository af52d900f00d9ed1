package handler

import (
	"time"

	"github.com/msomdec/bis-arena/internal/domain"
)

// UserDTO is the JSON representation of a user's public fields.
type UserDTO struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Age        *int    `json:"age"`
	College    *string `json:"college"`
	ProfilePic *string `json:"profilePic"`
	Points     int     `json:"points"`
	CreatedAt  string  `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		Username:  u.Username,
		Email:     u.Email,
		Age:       u.Age,
		College:   u.College,
		Points:    u.Points,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.ProfilePic != nil {
		url := ProfilePicURL(*u.ProfilePic)
		dto.ProfilePic = &url
	}
	return dto
}

// ProfilePicURL maps a storage key to the public path it is served under.
func ProfilePicURL(key string) string {
	return "/uploads/" + key
}

// LeaderboardEntryDTO is the JSON representation of one leaderboard row.
type LeaderboardEntryDTO struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

func toLeaderboardDTOs(entries []domain.LeaderboardEntry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{Username: e.Username, Points: e.Points, Rank: e.Rank}
	}
	return dtos
}

// MissionDTO is the JSON representation of a mission catalog entry.
type MissionDTO struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Points int    `json:"points"`
}

func toMissionDTOs(missions []domain.Mission) []MissionDTO {
	dtos := make([]MissionDTO, len(missions))
	for i, m := range missions {
		dtos[i] = MissionDTO{ID: m.ID, Title: m.Title, Points: m.Points}
	}
	return dtos
}

// VideoDTO is the JSON representation of a hub video.
type VideoDTO struct {
	Title     string   `json:"title"`
	Duration  string   `json:"duration"`
	Standards []string `json:"standards"`
	Thumbnail string   `json:"thumbnail"`
}

// VideoCategoryDTO is the JSON representation of a hub category.
type VideoCategoryDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Videos      []VideoDTO `json:"videos"`
}

func toCategoryDTOs(cats []domain.VideoCategory) []VideoCategoryDTO {
	dtos := make([]VideoCategoryDTO, len(cats))
	for i, c := range cats {
		videos := make([]VideoDTO, len(c.Videos))
		for j, v := range c.Videos {
			videos[j] = VideoDTO{Title: v.Title, Duration: v.Duration, Standards: v.Standards, Thumbnail: v.Thumbnail}
		}
		dtos[i] = VideoCategoryDTO{Title: c.Title, Description: c.Description, Videos: videos}
	}
	return dtos
}
