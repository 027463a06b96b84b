package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listharvest/internal/page"
)

// errPanic in fakePage.extractErrs makes ExtractAnchors panic instead of failing.
var errPanic = errors.New("panic requested")

// fakePage simulates a listing where each anchor is one item card and every
// click on load more reveals the next pending batch.
type fakePage struct {
	sel Selectors

	containerMissing bool
	status           *fakeElement
	anchors          []page.Anchor
	pending          [][]page.Anchor
	keepControl      bool
	noControl        bool
	scrollErr        error
	clickErr         error
	clickPanic       bool
	extractErrs      []error
	queryErrs        map[string]error

	extractCalls int
	excludes     [][]string
	clicks       int
	waits        []int
	delays       []time.Duration
}

func newFakePage(anchors ...page.Anchor) *fakePage {
	return &fakePage{sel: DefaultSelectors(), anchors: anchors}
}

func (f *fakePage) withStatus(text string) *fakePage {
	f.status = &fakeElement{text: text}
	return f
}

func (f *fakePage) controlPresent() bool {
	if f.noControl {
		return false
	}
	return len(f.pending) > 0 || f.keepControl
}

func (f *fakePage) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	if selector == f.sel.Container && f.containerMissing {
		return fmt.Errorf("wait for element '%s': %w", selector, page.ErrTimeout)
	}
	return nil
}

func (f *fakePage) WaitCountAbove(ctx context.Context, selector string, n int, timeout time.Duration) error {
	f.waits = append(f.waits, n)
	if len(f.anchors) > n {
		return nil
	}
	return fmt.Errorf("wait for more than %d '%s': %w", n, selector, page.ErrTimeout)
}

func (f *fakePage) QueryAll(ctx context.Context, selector string) ([]page.Element, error) {
	if err := f.queryErrs[selector]; err != nil {
		return nil, err
	}
	switch selector {
	case f.sel.Status:
		if f.status == nil {
			return nil, nil
		}
		return []page.Element{f.status}, nil
	case f.sel.Item:
		out := make([]page.Element, len(f.anchors))
		for i := range f.anchors {
			out[i] = &fakeElement{}
		}
		return out, nil
	case f.sel.LoadMore:
		if !f.controlPresent() {
			return nil, nil
		}
		return []page.Element{&fakeElement{page: f, control: true}}, nil
	}
	return nil, nil
}

func (f *fakePage) ExtractAnchors(ctx context.Context, selector, variantSelector string, exclude []string) ([]page.Anchor, error) {
	f.extractCalls++
	f.excludes = append(f.excludes, exclude)
	if len(f.extractErrs) > 0 {
		err := f.extractErrs[0]
		f.extractErrs = f.extractErrs[1:]
		if errors.Is(err, errPanic) {
			panic("extract blew up")
		}
		if err != nil {
			return nil, err
		}
	}

	skip := make(map[string]bool, len(exclude))
	for _, u := range exclude {
		skip[u] = true
	}
	var out []page.Anchor
	for _, a := range f.anchors {
		if !skip[a.URL] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePage) Delay(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return ctx.Err()
}

func (f *fakePage) click() error {
	if f.clickPanic {
		panic("click blew up")
	}
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	if len(f.pending) > 0 {
		f.anchors = append(f.anchors, f.pending[0]...)
		f.pending = f.pending[1:]
	}
	return nil
}

type fakeElement struct {
	page    *fakePage
	control bool
	text    string
	textErr error
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	return e.text, e.textErr
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	if e.control && e.page.scrollErr != nil {
		return e.page.scrollErr
	}
	return nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.control {
		return e.page.click()
	}
	return nil
}

// recorder collects every event.
type recorder struct {
	events []Event
}

func (r *recorder) Observe(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func anchors(urls ...string) []page.Anchor {
	out := make([]page.Anchor, len(urls))
	for i, u := range urls {
		out[i] = page.Anchor{URL: u}
	}
	return out
}

func urlsOf(records []ItemRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}
