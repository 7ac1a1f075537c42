package calendar

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// FeedConfig represents the configuration for a calendar feed client.
type FeedConfig struct {
	URL     string
	Timeout time.Duration // Default: 30 seconds
}

// Feed fetches ICS data from a planning feed URL.
type Feed struct {
	httpClient *http.Client
	url        string
}

// NewFeed creates a new feed client. webcal:// URLs are rewritten to https.
func NewFeed(config FeedConfig) *Feed {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	feedURL := config.URL
	if strings.HasPrefix(feedURL, "webcal://") {
		feedURL = "https://" + strings.TrimPrefix(feedURL, "webcal://")
	}

	return &Feed{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: feedURL,
	}
}

// Fetch downloads and parses the calendar.
func (f *Feed) Fetch() (*ics.Calendar, error) {
	req, err := http.NewRequest("GET", f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed error (status %d)", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return cal, nil
}

// Load parses a calendar from a local ICS file.
func Load(path string) (*ics.Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer f.Close()

	cal, err := ics.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar file %s: %w", path, err)
	}

	return cal, nil
}
