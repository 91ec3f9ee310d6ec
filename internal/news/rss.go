// Package news fetches travel headlines from RSS feeds.
package news

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

const defaultMaxItems = 20

// Fetcher parses one RSS feed into normalized news items.
type Fetcher struct {
	parser   *gofeed.Parser
	limiter  *ratelimit.Limiter
	timeout  time.Duration
	maxItems int
}

// NewFetcher creates a feed fetcher. The limiter may be nil.
func NewFetcher(limiter *ratelimit.Limiter, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		parser:   gofeed.NewParser(),
		limiter:  limiter,
		timeout:  timeout,
		maxItems: defaultMaxItems,
	}
}

// Fetch downloads and parses the feed, newest entries first as published.
// Feeds that parse but contain no items are ErrNoMatch.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]models.NewsItem, error) {
	if f.limiter != nil {
		f.limiter.Wait(feedURL)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for i, item := range feed.Items {
		if i >= f.maxItems {
			break
		}
		if item.Link == "" {
			continue
		}

		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		items = append(items, models.NewsItem{
			Title:       item.Title,
			URL:         item.Link,
			Summary:     item.Description,
			PublishedAt: publishedAt,
		})
	}

	if len(items) == 0 {
		return nil, provider.ErrNoMatch
	}
	return items, nil
}
