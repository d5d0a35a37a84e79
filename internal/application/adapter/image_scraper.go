package adapter

import "context"

// ImageScraper extracts a representative image URL from a product page.
type ImageScraper interface {
	// ScrapeImage returns the image URL for pageURL, or "" when none is found.
	ScrapeImage(ctx context.Context, pageURL string) (string, error)
}
