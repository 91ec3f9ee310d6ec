// greeneye-test sends one image URL through the Green-Eye detector and
// prints the verdict. Useful for checking credentials and thresholds
// without running the whole pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/moderation"
)

func main() {
	defaultURL := os.Getenv("IMAGE_URL")
	imageURL := flag.String("url", defaultURL, "publicly reachable image URL")
	flag.Parse()

	if *imageURL == "" {
		fmt.Fprintln(os.Stderr, "image URL is required (pass -url or IMAGE_URL env var)")
		os.Exit(1)
	}

	cfg := config.ProviderConfig{
		BaseURL: os.Getenv("GREENEYE_BASE_URL"),
		Key:     os.Getenv("GREENEYE_KEY"),
		Enabled: true,
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" || cfg.Key == "" {
		fmt.Fprintln(os.Stderr, "GREENEYE_BASE_URL and GREENEYE_KEY env vars are required")
		os.Exit(1)
	}

	detector := moderation.NewGreenEyeDetector(cfg, nil)

	threshold := 0.7
	if raw := os.Getenv("MODERATION_ADULT_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			threshold = parsed
		}
	}
	policy := moderation.NewPolicy(threshold, threshold)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	verdict, err := detector.Detect(ctx, moderation.Source{Name: "probe", URL: *imageURL})
	if err != nil {
		fmt.Fprintf(os.Stderr, "green-eye call failed: %v\n", err)
		os.Exit(1)
	}

	flagged, reason := policy.Evaluate(*verdict)

	fmt.Printf("Safe: %v\n", verdict.Safe)
	fmt.Printf("Flagged: %v\n", flagged)
	if reason != "" {
		fmt.Printf("Reason: %s\n", reason)
	} else if verdict.Reason != "" {
		fmt.Printf("Reason: %s\n", verdict.Reason)
	}

	categories := make([]string, 0, len(verdict.CategoryScores))
	for category := range verdict.CategoryScores {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	fmt.Println("Scores:")
	for _, category := range categories {
		fmt.Printf("  - %s: %.2f\n", category, verdict.CategoryScores[category])
	}
}
