package poster

import (
	"context"
	"errors"
)

// ErrRateLimited signals that the platform refused the attempt with a
// too-many-requests response. The run must not retry after it.
var ErrRateLimited = errors.New("rate limited by platform")

// Post represents the content to be published.
type Post struct {
	ImagePath string
	AltText   string
	Caption   string
	ReplyText string
}

// PostResult represents the result of a publish.
type PostResult struct {
	PostID   string
	ReplyIDs []string
	PostURL  string
}

// Poster is the interface for publishing to social media platforms.
type Poster interface {
	// Platform returns the name of the platform.
	Platform() string

	// Publish uploads the image, attaches alt text, creates the primary
	// post and a threaded reply with the full description.
	Publish(ctx context.Context, post Post) (*PostResult, error)

	// ValidateCredentials checks if the credentials are valid.
	ValidateCredentials(ctx context.Context) error
}
