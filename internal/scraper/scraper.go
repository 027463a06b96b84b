package scraper

import (
	"context"
	"time"

	"listharvest/internal/harvest"

	"github.com/rs/zerolog"
)

type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

type Options struct {
	Target     int                  // desired item count; 0 uses the page's reported total
	Seed       []harvest.ItemRecord // previously collected records to resume from
	BaseURL    string               // resolves relative hrefs in snapshot mode
	SaveHTML   string               // writes the final page HTML here for later snapshot runs
	WaitFor    string
	WaitTarget string
	Timeout    time.Duration
	ShowUI     bool
	ProxyURL   string // --proxy flag or LISTHARVEST_PROXY env var
	Stealth    bool
	UserAgent  string
	Harvest    harvest.Options
	Logger     zerolog.Logger
}
