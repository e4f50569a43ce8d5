package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"promo-shorts-pipeline/02_cues"
	"promo-shorts-pipeline/03_assets"
	"promo-shorts-pipeline/04_narration"
	"promo-shorts-pipeline/07_render"
	"promo-shorts-pipeline/08_publish"
	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/pipeline"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	subject     string
	mood        string
	withMusic   bool
	noNarration bool
	doPublish   bool
)

var rootCmd = &cobra.Command{
	Use:   "promoshorts",
	Short: "Turn a product name into a 25-second vertical promo video",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline for one product",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "Config file path")
	generateCmd.Flags().StringVarP(&subject, "subject", "s", "", "Product name (required)")
	generateCmd.Flags().StringVarP(&mood, "mood", "m", "energetic", "Script mood: funny, luxurious, energetic")
	generateCmd.Flags().BoolVar(&withMusic, "music", false, "Mix in a background music track")
	generateCmd.Flags().BoolVar(&noNarration, "no-narration", false, "Skip narration synthesis")
	generateCmd.Flags().BoolVar(&doPublish, "publish", false, "Upload the result to YouTube after rendering")
	_ = generateCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Load .env (local dev only — CI uses real env)
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Tmp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	// The render is cancelable on shutdown: no partial file survives as done
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Long-lived provider handles, constructed once and injected per run
	var textProviders []cues.TextProvider
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		textProviders = append(textProviders, cues.NewOpenAIProvider(key, cfg.Cues.Model))
	}
	textProviders = append(textProviders, cues.NewPollinationsProvider())

	cueGen := cues.New(textProviders, cfg.Cues.MaxCues)
	resolver := assets.NewResolver(cfg, assets.NewPexelsClient(os.Getenv("PEXELS_API_KEY")))
	fetcher := assets.NewDownloader()
	speech := narration.New(cfg, narration.NewElevenLabsClient(&cfg.Narration, os.Getenv("ELEVENLABS_API_KEY")))
	renderer := render.New()

	orch := pipeline.New(cfg, cueGen, resolver, fetcher, speech, renderer)

	result := orch.Run(ctx, pipeline.Request{
		Subject:   subject,
		Mood:      mood,
		Narration: !noNarration,
		Music:     withMusic,
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		fmt.Println(string(out))
	}

	if !result.Success {
		os.Exit(1)
	}

	if doPublish {
		publisher := publish.New(cfg)
		if _, url, err := publisher.Run(ctx, result.VideoPath, subject, result); err != nil {
			log.Printf("⚠️  Publish failed: %v — video kept locally at %s", err, result.VideoPath)
		} else {
			log.Printf("Published: %s", url)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
