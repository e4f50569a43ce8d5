package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SearchOptions constrain a stock video search
type SearchOptions struct {
	Orientation string
	PerPage     int
}

// VideoFile is one downloadable encoding of a candidate
type VideoFile struct {
	Quality string
	Width   int
	Height  int
	Link    string
}

// Candidate is one search result with its available encodings
type Candidate struct {
	ID          string
	DurationSec float64
	Files       []VideoFile
}

// Searcher is the video search provider consumed by the resolver
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error)
}

// PexelsClient talks to the Pexels video search API
type PexelsClient struct {
	httpClient *http.Client
	apiKey     string
}

// NewPexelsClient creates a Pexels search client
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		apiKey:     apiKey,
	}
}

type pexelsResponse struct {
	Videos []struct {
		ID         int64 `json:"id"`
		Duration   int   `json:"duration"`
		VideoFiles []struct {
			Quality string `json:"quality"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			Link    string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search queries the Pexels videos endpoint
func (c *PexelsClient) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("PEXELS_API_KEY not set")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", opts.PerPage))
	if opts.Orientation != "" {
		params.Set("orientation", opts.Orientation)
	}

	reqURL := "https://api.pexels.com/videos/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from Pexels", resp.StatusCode)
	}

	var result pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse pexels response: %w", err)
	}

	candidates := make([]Candidate, 0, len(result.Videos))
	for _, v := range result.Videos {
		c := Candidate{
			ID:          fmt.Sprintf("pexels_%d", v.ID),
			DurationSec: float64(v.Duration),
		}
		for _, f := range v.VideoFiles {
			c.Files = append(c.Files, VideoFile{
				Quality: f.Quality,
				Width:   f.Width,
				Height:  f.Height,
				Link:    f.Link,
			})
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
