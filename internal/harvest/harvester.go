// Package harvest collects product links from an incrementally loaded
// listing page.
//
// A Harvester alternates between extracting new item anchors, clicking the
// page's "load more" control and waiting for the item count to grow, until a
// target count is reached, the pagination control disappears or too many
// consecutive cycles produce nothing. None of its operations fail: timeouts,
// missing elements and click failures are folded into result values and
// reported to the Observer.
//
// Usage:
//
//	h, err := harvest.New(harvest.DefaultOptions(), observer)
//	if err != nil {
//	    return err
//	}
//	p := page.NewRod(rodPage)
//	progress := h.ReadProgress(ctx, p)
//	res := h.Collect(ctx, p, progress.Total, nil)
//	if !res.Fulfilled() {
//	    // fewer items than requested
//	}
package harvest

import (
	"fmt"
	"regexp"
)

// Harvester runs harvest operations against one page at a time. It keeps no
// per-page state and may be reused sequentially.
type Harvester struct {
	opts     Options
	status   *regexp.Regexp
	observer Observer
}

// New validates opts. A nil observer discards events.
func New(opts Options, observer Observer) (*Harvester, error) {
	re, err := opts.compile()
	if err != nil {
		return nil, err
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Harvester{opts: opts, status: re, observer: observer}, nil
}

// Options returns the options the Harvester was built with.
func (h *Harvester) Options() Options {
	return h.opts
}

func (h *Harvester) emit(e Event) {
	h.observer.Observe(e)
}

// recovered turns a value recovered from a collaborator panic into an error.
func recovered(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
