package podcasts

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by NotFoundError
var ErrNotFound = errors.New("podcast not found")

// NotFoundError is returned when no podcast is stored for a feed URL
type NotFoundError struct {
	FeedURL string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("podcast with feed url %s not found", e.FeedURL)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
