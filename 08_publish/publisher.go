package publish

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Publisher uploads a rendered promo short via the YouTube Data API v3.
// Publishing is optional: a failed upload never invalidates the run
// result, since the artifact already exists locally.
type Publisher struct {
	cfg *config.Config
}

// New creates a Publisher
func New(cfg *config.Config) *Publisher {
	return &Publisher{cfg: cfg}
}

// Run uploads the video and returns its ID and watch URL
func (p *Publisher) Run(ctx context.Context, videoFile, subject string, result *types.RunResult) (string, string, error) {
	log.Println("[publish] Authenticating with YouTube API...")

	client, err := p.getOAuthClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", "", fmt.Errorf("youtube service: %w", err)
	}

	title := fmt.Sprintf("%s — in 25 seconds", subject)
	description := result.ScriptText

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			CategoryId:  p.cfg.Publish.CategoryID,
			Tags:        []string{subject, "shorts", "promo"},
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: p.cfg.Publish.Visibility,
		},
	}

	f, err := os.Open(videoFile)
	if err != nil {
		return "", "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	log.Printf("[publish] Uploading: %q", title)
	call := svc.Videos.Insert([]string{"snippet", "status"}, video)
	call.Media(f)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("youtube upload: %w", err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("[publish] ✅ Uploaded: %s", videoURL)
	return uploaded.Id, videoURL, nil
}

// getOAuthClient builds an OAuth2-backed HTTP client from env credentials
func (p *Publisher) getOAuthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("YOUTUBE_CLIENT_ID")
	clientSecret := os.Getenv("YOUTUBE_CLIENT_SECRET")
	refreshToken := os.Getenv("YOUTUBE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID, YOUTUBE_CLIENT_SECRET, or YOUTUBE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{youtube.YoutubeUploadScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token)), nil
}
