package feeds

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// GofeedParser parses RSS, Atom and JSON feeds with gofeed
type GofeedParser struct{}

// Ensure GofeedParser implements FeedParser interface
var _ FeedParser = (*GofeedParser)(nil)

// NewGofeedParser creates a new parser
func NewGofeedParser() *GofeedParser {
	return &GofeedParser{}
}

// Parse decodes raw feed bytes. A fresh gofeed.Parser is used per call since
// it is not safe for concurrent use.
func (p *GofeedParser) Parse(data []byte) (*gofeed.Feed, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}
	return feed, nil
}
