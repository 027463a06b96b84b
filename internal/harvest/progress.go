package harvest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"listharvest/internal/page"
)

// ProgressSource tells where a Progress came from.
type ProgressSource string

const (
	SourceStatusText   ProgressSource = "status-text"
	SourceVisibleCount ProgressSource = "visible-count"
	SourceUnavailable  ProgressSource = "unavailable"
)

// Progress is a point-in-time count of loaded items against the reported or
// estimated total.
type Progress struct {
	Current int            `json:"current"`
	Total   int            `json:"total"`
	Source  ProgressSource `json:"source"`
}

// ReadProgress reports how many items are loaded and how many to expect.
// It prefers the page's status text and falls back to counting item cards
// with the total estimated as FallbackMultiplier times the count. If the
// listing container never appears it returns {0, 0}.
func (h *Harvester) ReadProgress(ctx context.Context, p page.Page) (prog Progress) {
	defer func() {
		if r := recover(); r != nil {
			prog = h.unavailable(recovered(r))
		}
	}()

	sel := h.opts.Selectors
	if err := p.WaitElement(ctx, sel.Container, h.opts.ContainerTimeout); err != nil {
		return h.unavailable(fmt.Errorf("listing container: %w", err))
	}

	prog, err := h.statusProgress(ctx, p)
	if err == nil {
		h.emit(Event{Kind: EventProgressRead, Progress: prog})
		return prog
	}
	h.emit(Event{Kind: EventProgressFallback, Err: err})

	items, err := p.QueryAll(ctx, sel.Item)
	if err != nil {
		return h.unavailable(fmt.Errorf("count items: %w", err))
	}
	prog = Progress{Current: len(items), Source: SourceVisibleCount}
	if prog.Current > 0 {
		prog.Total = prog.Current * h.opts.FallbackMultiplier
	}
	h.emit(Event{Kind: EventProgressRead, Progress: prog})
	return prog
}

func (h *Harvester) unavailable(err error) Progress {
	prog := Progress{Source: SourceUnavailable}
	h.emit(Event{Kind: EventProgressUnavailable, Progress: prog, Err: err})
	return prog
}

// statusProgress parses the first status element's text.
func (h *Harvester) statusProgress(ctx context.Context, p page.Page) (Progress, error) {
	els, err := p.QueryAll(ctx, h.opts.Selectors.Status)
	if err != nil {
		return Progress{}, fmt.Errorf("query status: %w", err)
	}
	if len(els) == 0 {
		return Progress{}, fmt.Errorf("status element not found")
	}
	text, err := els[0].Text(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("read status: %w", err)
	}
	text = strings.TrimSpace(text)

	m := h.status.FindStringSubmatch(text)
	if m == nil {
		return Progress{}, fmt.Errorf("status text %q does not match", text)
	}
	current, err := strconv.Atoi(m[1])
	if err != nil {
		return Progress{}, fmt.Errorf("parse current: %w", err)
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Progress{}, fmt.Errorf("parse total: %w", err)
	}
	return Progress{Current: current, Total: total, Source: SourceStatusText}, nil
}
