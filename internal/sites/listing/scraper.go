package listing

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"listharvest/internal/browser"
	"listharvest/internal/fetcher"
	"listharvest/internal/harvest"
	"listharvest/internal/logger"
	"listharvest/internal/page"
	"listharvest/internal/scraper"

	"github.com/go-rod/rod"
)

func init() {
	scraper.Register(&ListingScraper{})
}

// ListingScraper opens a live listing page and harvests its product links.
type ListingScraper struct{}

func (s *ListingScraper) Name() string { return "listing" }

func (s *ListingScraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	if target == "" {
		return nil, fmt.Errorf("URL is required for --site listing")
	}

	h, err := harvest.New(opts.Harvest, logger.NewObserver(opts.Logger))
	if err != nil {
		return nil, err
	}

	strategy, err := fetcher.ParseWaitStrategy(opts.WaitFor)
	if err != nil {
		return nil, err
	}

	b, err := browser.New(browser.Config{
		ProxyURL:  opts.ProxyURL,
		Headless:  !opts.ShowUI,
		Stealth:   opts.Stealth,
		UserAgent: opts.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	res, err := fetcher.NewFetcher(b).Fetch(ctx, target, strategy, opts.WaitTarget, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer res.Page.Close()

	opts.Logger.Info().
		Str("url", res.URL).
		Str("title", res.Title).
		Dur("load_time", res.LoadTime).
		Msg("page loaded")

	content := Run(ctx, h, page.NewRod(res.Page), res.URL, opts)

	if opts.SaveHTML != "" {
		saveCtx, cancel := saveContext(ctx)
		defer cancel()
		if err := saveHTML(saveCtx, res.Page, opts.SaveHTML); err != nil {
			opts.Logger.Warn().Err(err).Msg("failed to save page snapshot")
		} else {
			opts.Logger.Info().Str("file", opts.SaveHTML).Msg("page snapshot saved")
		}
	}

	return content, nil
}

// saveTimeout bounds the snapshot write once the run itself is over.
const saveTimeout = 30 * time.Second

// saveContext detaches from ctx so an interrupted run still writes what it
// loaded, bounded by saveTimeout.
func saveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
}

// saveHTML writes the page's current document, including every item loaded
// by pagination, so it can be harvested again with --site snapshot.
func saveHTML(ctx context.Context, p *rod.Page, path string) error {
	html, err := p.Context(ctx).HTML()
	if err != nil {
		return fmt.Errorf("failed to read page HTML: %w", err)
	}
	return os.WriteFile(path, []byte(html), 0644)
}

// Run reads the page's progress, settles the target and collects items.
// The target is opts.Target when positive, else the page's reported total;
// with neither, collection runs until pagination or attempts are exhausted.
func Run(ctx context.Context, h *harvest.Harvester, p page.Page, source string, opts scraper.Options) *ListingContent {
	log := opts.Logger

	progress := h.ReadProgress(ctx, p)

	target := opts.Target
	if target <= 0 {
		target = progress.Total
	}
	limit := target
	if limit <= 0 {
		log.Warn().Msg("no target given and page reported no total; collecting until exhausted")
		limit = math.MaxInt
	}

	res := h.Collect(ctx, p, limit, opts.Seed)

	if target > 0 && !res.Fulfilled() {
		log.Warn().
			Int("collected", res.Items.Len()).
			Int("target", target).
			Str("reason", string(res.Reason)).
			Msg("collected fewer items than requested")
	}

	return NewListingContent(source, target, progress, res)
}
