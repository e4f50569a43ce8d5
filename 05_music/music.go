package music

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"promo-shorts-pipeline/types"
)

var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
	".aac": true,
}

// Pick selects a random track from the shared background-music pool.
// The pool is read-only; a missing or empty directory means no music,
// which is a normal outcome.
func Pick(dir string) *types.MusicAsset {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[music] no music pool at %s: %v", dir, err)
		return nil
	}

	var tracks []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			tracks = append(tracks, e.Name())
		}
	}
	if len(tracks) == 0 {
		log.Printf("[music] music pool %s has no audio files", dir)
		return nil
	}

	pick := tracks[rand.Intn(len(tracks))]
	log.Printf("[music] picked track: %s", pick)
	return &types.MusicAsset{Path: filepath.Join(dir, pick)}
}
