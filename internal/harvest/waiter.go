package harvest

import (
	"context"

	"listharvest/internal/page"
)

// GrowthResult is the outcome of AwaitGrowth. A timeout is an ordinary
// outcome, reported with Grew false and Err wrapping page.ErrTimeout.
type GrowthResult struct {
	Grew bool
	Err  error
}

// AwaitGrowth waits until more than previousCount item cards are present or
// GrowthTimeout elapses.
func (h *Harvester) AwaitGrowth(ctx context.Context, p page.Page, previousCount int) (res GrowthResult) {
	defer func() {
		if r := recover(); r != nil {
			res = GrowthResult{Err: recovered(r)}
		}
		if res.Grew {
			h.emit(Event{Kind: EventGrowthConfirmed, Collected: previousCount})
		} else {
			h.emit(Event{Kind: EventGrowthTimeout, Collected: previousCount, Err: res.Err})
		}
	}()

	if err := p.WaitCountAbove(ctx, h.opts.Selectors.Item, previousCount, h.opts.GrowthTimeout); err != nil {
		return GrowthResult{Err: err}
	}
	return GrowthResult{Grew: true}
}
