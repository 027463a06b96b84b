package snapshot

import (
	"context"
	"fmt"

	"listharvest/internal/harvest"
	"listharvest/internal/logger"
	"listharvest/internal/page"
	"listharvest/internal/scraper"
	"listharvest/internal/sites/listing"
)

func init() {
	scraper.Register(&SnapshotScraper{})
}

// SnapshotScraper harvests a listing page saved to disk. Only the items
// present in the file are found; pagination always ends on the first click.
type SnapshotScraper struct{}

func (s *SnapshotScraper) Name() string { return "snapshot" }

func (s *SnapshotScraper) Scrape(ctx context.Context, path string, opts scraper.Options) (scraper.Content, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is required for --site snapshot")
	}

	h, err := harvest.New(opts.Harvest, logger.NewObserver(opts.Logger))
	if err != nil {
		return nil, err
	}

	p, err := page.LoadStatic(path, opts.BaseURL)
	if err != nil {
		return nil, err
	}

	source := opts.BaseURL
	if source == "" {
		source = path
	}
	opts.Logger.Info().Str("file", path).Str("base_url", opts.BaseURL).Msg("snapshot loaded")

	return listing.Run(ctx, h, p, source, opts), nil
}
