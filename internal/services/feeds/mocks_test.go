package feeds

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	args := m.Called(ctx, url, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) ResolvePath(url, dir string) (string, error) {
	args := m.Called(url, dir)
	return args.String(0), args.Error(1)
}

func (m *MockCacheStore) IsFresh(path string, maxAge time.Duration) bool {
	args := m.Called(path, maxAge)
	return args.Bool(0)
}

func (m *MockCacheStore) Read(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheStore) Write(path string, data []byte) error {
	args := m.Called(path, data)
	return args.Error(0)
}

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>Acme Show</title>
    <link>https://acme.example</link>
    <description>All about Acme</description>
    <copyright>2024 Acme Corp</copyright>
    <itunes:author>Acme Radio</itunes:author>
    <image>
      <url>https://acme.example/art.jpg</url>
      <title>Acme Show</title>
      <link>https://acme.example</link>
    </image>
    <item>
      <title>Episode 1</title>
      <guid>ep-1</guid>
      <link>https://acme.example/1</link>
      <description>First</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <enclosure url="https://acme.example/1.mp3" length="123" type="audio/mpeg"/>
      <itunes:duration>01:02:03</itunes:duration>
      <itunes:season>2</itunes:season>
      <itunes:episode>7</itunes:episode>
    </item>
    <item>
      <title>Episode 2</title>
      <guid>ep-2</guid>
      <pubDate>not a date</pubDate>
      <itunes:author>Guest Host</itunes:author>
    </item>
    <item>
      <title>Episode 3</title>
      <guid>ep-3</guid>
    </item>
  </channel>
</rss>`
