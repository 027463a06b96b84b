package harvest

import (
	"context"
	"fmt"

	"listharvest/internal/page"
)

// AdvanceOutcome classifies a pagination attempt.
type AdvanceOutcome int

const (
	// AdvanceIssued means the load-more control was clicked.
	AdvanceIssued AdvanceOutcome = iota
	// AdvanceNoControl means no enabled control exists; the listing is fully loaded.
	AdvanceNoControl
	// AdvanceFailed means the control was found but could not be used.
	AdvanceFailed
)

func (o AdvanceOutcome) String() string {
	switch o {
	case AdvanceIssued:
		return "issued"
	case AdvanceNoControl:
		return "no-control"
	case AdvanceFailed:
		return "failed"
	default:
		return fmt.Sprintf("AdvanceOutcome(%d)", int(o))
	}
}

// AdvanceResult is the outcome of AttemptAdvance. Err is diagnostic only.
type AdvanceResult struct {
	Outcome AdvanceOutcome
	Err     error
}

// Issued reports whether a pagination action was sent to the page.
func (r AdvanceResult) Issued() bool {
	return r.Outcome == AdvanceIssued
}

// AttemptAdvance clicks the first enabled load-more control after scrolling
// it into view. It does not wait for new content.
func (h *Harvester) AttemptAdvance(ctx context.Context, p page.Page) (res AdvanceResult) {
	defer func() {
		if r := recover(); r != nil {
			res = AdvanceResult{Outcome: AdvanceFailed, Err: recovered(r)}
		}
		h.emit(advanceEvent(res))
	}()

	controls, err := p.QueryAll(ctx, h.opts.Selectors.LoadMore)
	if err != nil {
		return AdvanceResult{Outcome: AdvanceFailed, Err: fmt.Errorf("find load more control: %w", err)}
	}
	if len(controls) == 0 {
		return AdvanceResult{Outcome: AdvanceNoControl}
	}

	btn := controls[0]
	if err := btn.ScrollIntoView(ctx); err != nil {
		return AdvanceResult{Outcome: AdvanceFailed, Err: fmt.Errorf("scroll load more into view: %w", err)}
	}
	if err := btn.Click(ctx); err != nil {
		return AdvanceResult{Outcome: AdvanceFailed, Err: fmt.Errorf("click load more: %w", err)}
	}
	return AdvanceResult{Outcome: AdvanceIssued}
}

func advanceEvent(res AdvanceResult) Event {
	switch res.Outcome {
	case AdvanceIssued:
		return Event{Kind: EventAdvanceIssued}
	case AdvanceNoControl:
		return Event{Kind: EventAdvanceNoControl}
	default:
		return Event{Kind: EventAdvanceFailed, Err: res.Err}
	}
}
