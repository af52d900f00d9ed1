package service

import (
	"strings"

	"github.com/msomdec/bis-arena/internal/domain"
)

// hubCatalog is the static learning-hub content.
var hubCatalog = []domain.VideoCategory{
	{
		Title:       "Safety Standards",
		Description: "Learn about essential safety protocols and standards",
		Videos: []domain.Video{
			{Title: "Introduction to Safety Standards", Duration: "5:30", Standards: []string{"IS 12345", "IS 67890"}, Thumbnail: "/assets/images/safety1.jpg"},
			{Title: "Workplace Safety Guidelines", Duration: "8:45", Standards: []string{"IS 45678"}, Thumbnail: "/assets/images/safety2.jpg"},
			{Title: "Emergency Response Protocols", Duration: "6:20", Standards: []string{"IS 98765"}, Thumbnail: "/assets/images/safety3.jpg"},
		},
	},
	{
		Title:       "Quality Control",
		Description: "Master quality management and control techniques",
		Videos: []domain.Video{
			{Title: "Quality Management Basics", Duration: "6:15", Standards: []string{"IS 98765"}, Thumbnail: "/assets/images/quality1.jpg"},
			{Title: "Inspection Techniques", Duration: "7:20", Standards: []string{"IS 34567"}, Thumbnail: "/assets/images/quality2.jpg"},
			{Title: "Documentation and Reporting", Duration: "4:55", Standards: []string{"IS 23456"}, Thumbnail: "/assets/images/quality3.jpg"},
		},
	},
	{
		Title:       "Certification Process",
		Description: "Understanding certification requirements and procedures",
		Videos: []domain.Video{
			{Title: "Certification Overview", Duration: "7:30", Standards: []string{"IS 87654"}, Thumbnail: "/assets/images/cert1.jpg"},
			{Title: "Application Process", Duration: "5:45", Standards: []string{"IS 65432"}, Thumbnail: "/assets/images/cert2.jpg"},
		},
	},
	{
		Title:       "Testing Methods",
		Description: "Learn various testing and validation methods",
		Videos: []domain.Video{
			{Title: "Material Testing Basics", Duration: "8:15", Standards: []string{"IS 54321"}, Thumbnail: "/assets/images/test1.jpg"},
			{Title: "Advanced Testing Procedures", Duration: "9:30", Standards: []string{"IS 12345"}, Thumbnail: "/assets/images/test2.jpg"},
		},
	},
}

// HubService serves the learning-hub catalog.
type HubService struct{}

// NewHubService creates a new HubService.
func NewHubService() *HubService {
	return &HubService{}
}

// Categories returns the full catalog.
func (s *HubService) Categories() []domain.VideoCategory {
	return hubCatalog
}

// Search filters the catalog by case-insensitive substring match on video
// title or standard code. Categories left with no videos are dropped.
// An empty term returns the full catalog.
func (s *HubService) Search(term string) []domain.VideoCategory {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return hubCatalog
	}

	var result []domain.VideoCategory
	for _, cat := range hubCatalog {
		var videos []domain.Video
		for _, v := range cat.Videos {
			if videoMatches(v, term) {
				videos = append(videos, v)
			}
		}
		if len(videos) > 0 {
			filtered := cat
			filtered.Videos = videos
			result = append(result, filtered)
		}
	}
	return result
}

func videoMatches(v domain.Video, term string) bool {
	if strings.Contains(strings.ToLower(v.Title), term) {
		return true
	}
	for _, std := range v.Standards {
		if strings.Contains(strings.ToLower(std), term) {
			return true
		}
	}
	return false
}
