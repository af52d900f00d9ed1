package domain

// Video is a single learning-hub entry.
type Video struct {
	Title     string
	Duration  string
	Standards []string
	Thumbnail string
}

// VideoCategory groups hub videos under a heading.
type VideoCategory struct {
	Title       string
	Description string
	Videos      []Video
}
