package domain

// Mission is a gamified activity a user can complete for points.
// The catalog shown on the dashboard is static; completion requests carry
// the point value chosen by the client.
type Mission struct {
	ID     string
	Title  string
	Points int
}
