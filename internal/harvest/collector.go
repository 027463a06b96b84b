package harvest

import (
	"context"
	"fmt"

	"listharvest/internal/page"
)

// collection is the mutable state of one Collect call.
type collection struct {
	h         *Harvester
	p         page.Page
	res       *Result
	lastCount int
}

// Collect accumulates item records from p, starting from seed, until
// targetCount records are held, MaxAttempts consecutive cycles add nothing,
// the pagination control stops being available, or ctx is done.
//
// Each cycle extracts anchors not yet collected, then, while still short of
// the target, clicks load more and waits for the item count to exceed the
// collected count seen at the last productive cycle. The wait's outcome does
// not end the loop; a cycle that finds nothing new counts against the
// attempt budget instead. Extraction errors also count against the budget
// and are followed by SettleDelay.
//
// Collect never fails. The returned Result may hold fewer than targetCount
// records; check Fulfilled or Reason.
func (h *Harvester) Collect(ctx context.Context, p page.Page, targetCount int, seed []ItemRecord) *Result {
	c := &collection{
		h:   h,
		p:   p,
		res: &Result{Items: NewCollectedSet(seed...), Target: targetCount},
	}
	res := c.res
	maxAttempts := h.opts.MaxAttempts

	for res.Items.Len() < targetCount && res.Attempts < maxAttempts {
		if ctx.Err() != nil {
			res.Reason = StopCancelled
			break
		}
		res.Iterations++

		exhausted, err := c.step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				res.Reason = StopCancelled
				break
			}
			res.Attempts++
			h.emit(Event{
				Kind:        EventCollectionError,
				Collected:   res.Items.Len(),
				Target:      targetCount,
				Attempt:     res.Attempts,
				MaxAttempts: maxAttempts,
				Err:         err,
			})
			_ = p.Delay(ctx, h.opts.SettleDelay)
			continue
		}
		if exhausted {
			// a cancel during the trigger surfaces as a failed advance
			if ctx.Err() != nil {
				res.Reason = StopCancelled
			} else {
				res.Reason = StopPaginationExhausted
			}
			break
		}
	}

	if res.Reason == "" {
		if res.Items.Len() >= targetCount {
			res.Reason = StopTargetReached
		} else {
			res.Reason = StopAttemptsExhausted
		}
	}
	h.emit(Event{
		Kind:        EventDone,
		Collected:   res.Items.Len(),
		Target:      targetCount,
		Attempt:     res.Attempts,
		MaxAttempts: maxAttempts,
		Reason:      res.Reason,
	})
	return res
}

// step runs one extract/advance/wait cycle. It reports exhausted when the
// page offers no way to load more.
func (c *collection) step(ctx context.Context) (exhausted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()

	h, res := c.h, c.res
	sel := h.opts.Selectors

	anchors, err := c.p.ExtractAnchors(ctx, sel.Anchor, sel.Variant, res.Items.URLs())
	if err != nil {
		return false, fmt.Errorf("extract items: %w", err)
	}
	records := make([]ItemRecord, len(anchors))
	for i, a := range anchors {
		records[i] = ItemRecord{URL: a.URL, HasVariant: a.HasVariant}
	}

	if added := res.Items.Add(records...); len(added) > 0 {
		res.Attempts = 0
		c.lastCount = res.Items.Len()
		h.emit(Event{
			Kind:      EventItemsAdded,
			Added:     len(added),
			Collected: res.Items.Len(),
			Target:    res.Target,
		})
	} else {
		res.Attempts++
		h.emit(Event{
			Kind:        EventNoNewItems,
			Collected:   res.Items.Len(),
			Target:      res.Target,
			Attempt:     res.Attempts,
			MaxAttempts: h.opts.MaxAttempts,
		})
	}

	if res.Items.Len() >= res.Target {
		return false, nil
	}
	if !h.AttemptAdvance(ctx, c.p).Issued() {
		return true, nil
	}
	h.AwaitGrowth(ctx, c.p, c.lastCount)
	return false, nil
}
