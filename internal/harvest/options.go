package harvest

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ErrInvalidOptions is wrapped by every validation failure from New.
var ErrInvalidOptions = errors.New("invalid harvest options")

// Defaults for Options.
const (
	DefaultContainerTimeout   = 150 * time.Second
	DefaultGrowthTimeout      = 150 * time.Second
	DefaultMaxAttempts        = 10
	DefaultSettleDelay        = 20 * time.Second
	DefaultFallbackMultiplier = 3
	DefaultStatusPattern      = `You have viewed (\d+) of (\d+)`
)

// Selectors locate the parts of a listing page.
type Selectors struct {
	// Container must exist before progress can be read.
	Container string `yaml:"container" json:"container"`
	// Item matches one node per item card; its count drives growth detection.
	Item string `yaml:"item" json:"item"`
	// Anchor matches the product links inside item cards.
	Anchor string `yaml:"anchor" json:"anchor"`
	// Variant is looked up inside each anchor.
	Variant string `yaml:"variant" json:"variant"`
	// Status holds the "viewed X of Y" text.
	Status string `yaml:"status" json:"status"`
	// LoadMore matches the enabled pagination control only.
	LoadMore string `yaml:"load_more" json:"load_more"`
}

// DefaultSelectors returns the product listing markup selectors.
func DefaultSelectors() Selectors {
	return Selectors{
		Container: "ul.ProductListingResults__productList",
		Item:      "ul.ProductListingResults__productList li.ProductListingResults__productCard",
		Anchor:    "ul.ProductListingResults__productList li.ProductListingResults__productCard div.ProductCard a",
		Variant:   ".ProductCard__variants",
		Status:    "p.Text-ds.Text-ds--body-2.Text-ds--center.Text-ds--black",
		LoadMore:  "button.LoadContent__button:not([disabled])",
	}
}

// Options tune a Harvester. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// ContainerTimeout bounds the wait for the listing container.
	ContainerTimeout time.Duration
	// GrowthTimeout bounds the wait for the item count to grow after a click.
	GrowthTimeout time.Duration
	// MaxAttempts is the number of consecutive no-progress cycles tolerated.
	MaxAttempts int
	// SettleDelay is the pause after a failed iteration.
	SettleDelay time.Duration
	// FallbackMultiplier estimates the total from the visible count when no
	// status text is available.
	FallbackMultiplier int
	// StatusPattern must have two capture groups: current and total.
	StatusPattern string
	Selectors     Selectors
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ContainerTimeout:   DefaultContainerTimeout,
		GrowthTimeout:      DefaultGrowthTimeout,
		MaxAttempts:        DefaultMaxAttempts,
		SettleDelay:        DefaultSettleDelay,
		FallbackMultiplier: DefaultFallbackMultiplier,
		StatusPattern:      DefaultStatusPattern,
		Selectors:          DefaultSelectors(),
	}
}

// compile validates o and returns the compiled status pattern.
func (o Options) compile() (*regexp.Regexp, error) {
	var problems []string
	if o.ContainerTimeout <= 0 {
		problems = append(problems, "container timeout must be positive")
	}
	if o.GrowthTimeout <= 0 {
		problems = append(problems, "growth timeout must be positive")
	}
	if o.MaxAttempts <= 0 {
		problems = append(problems, "max attempts must be positive")
	}
	if o.SettleDelay < 0 {
		problems = append(problems, "settle delay must not be negative")
	}
	if o.FallbackMultiplier < 1 {
		problems = append(problems, "fallback multiplier must be at least 1")
	}
	sel := o.Selectors
	for name, v := range map[string]string{
		"container": sel.Container,
		"item":      sel.Item,
		"anchor":    sel.Anchor,
		"status":    sel.Status,
		"load_more": sel.LoadMore,
	} {
		if strings.TrimSpace(v) == "" {
			problems = append(problems, fmt.Sprintf("selector %s is empty", name))
		}
	}

	re, err := regexp.Compile(o.StatusPattern)
	if err != nil {
		problems = append(problems, fmt.Sprintf("status pattern: %v", err))
	} else if re.NumSubexp() < 2 {
		problems = append(problems, "status pattern needs two capture groups")
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(problems, "; "))
	}
	return re, nil
}
