package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"promo-shorts-pipeline/types"
)

// Downloader fetches resolved fragments into run-owned temp storage
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a fragment Downloader
func NewDownloader() *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Fetch downloads every reference into dir, preserving resolution order.
// A failed download drops that fragment with a warning; the remaining
// fragments keep their relative order.
func (d *Downloader) Fetch(ctx context.Context, refs []types.AssetReference, dir string) []string {
	var paths []string
	for i, ref := range refs {
		outFile := filepath.Join(dir, fmt.Sprintf("fragment_%02d.mp4", i))
		if err := d.fetchOne(ctx, ref.URL, outFile); err != nil {
			log.Printf("[assets] fragment %d (%s) download failed: %v — dropping", i, ref.ID, err)
			continue
		}
		paths = append(paths, outFile)
	}
	return paths
}

func (d *Downloader) fetchOne(ctx context.Context, srcURL, outFile string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", srcURL, nil)
	if err != nil {
		return err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(outFile)
		return err
	}
	return nil
}
