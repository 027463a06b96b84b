package page

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const extractAnchorsJS = `(selector, variantSelector, exclude) => {
	const seen = new Set(exclude || []);
	return Array.from(document.querySelectorAll(selector))
		.filter(a => a.href && !seen.has(a.href))
		.map(a => ({
			url: a.href,
			hasVariant: variantSelector ? a.querySelector(variantSelector) !== null : false,
		}));
}`

const countAboveJS = `(selector, n) => document.querySelectorAll(selector).length > n`

// Rod adapts a live go-rod page.
type Rod struct {
	page *rod.Page
}

// NewRod wraps p. The caller keeps ownership of p and closes it.
func NewRod(p *rod.Page) *Rod {
	return &Rod{page: p}
}

// WaitElement waits for selector to match using rod's element retry loop.
func (r *Rod) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := timed(ctx, timeout)
	defer cancel()
	if _, err := r.page.Context(ctx).Element(selector); err != nil {
		return waitErr(fmt.Sprintf("wait for element '%s'", selector), timeout, err)
	}
	return nil
}

// WaitCountAbove polls a predicate in the page until it holds.
func (r *Rod) WaitCountAbove(ctx context.Context, selector string, n int, timeout time.Duration) error {
	ctx, cancel := timed(ctx, timeout)
	defer cancel()
	err := r.page.Context(ctx).Wait(rod.Eval(countAboveJS, selector, n))
	if err != nil {
		return waitErr(fmt.Sprintf("wait for more than %d '%s'", n, selector), timeout, err)
	}
	return nil
}

// QueryAll returns the current matches without waiting.
func (r *Rod) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	els, err := r.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query '%s': %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

// ExtractAnchors runs the filter and projection inside the page so only new
// anchors cross the CDP connection.
func (r *Rod) ExtractAnchors(ctx context.Context, selector, variantSelector string, exclude []string) ([]Anchor, error) {
	if exclude == nil {
		exclude = []string{}
	}
	val, err := r.page.Context(ctx).Eval(extractAnchorsJS, selector, variantSelector, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to extract anchors: %w", err)
	}

	raw, err := val.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to read anchors: %w", err)
	}
	var anchors []Anchor
	if err := json.Unmarshal(raw, &anchors); err != nil {
		return nil, fmt.Errorf("failed to parse anchors: %w", err)
	}
	return anchors, nil
}

// Delay sleeps on the Go side; the page keeps running its own timers.
func (r *Rod) Delay(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	val, err := e.el.Context(ctx).Eval(`() => this.textContent`)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return val.Value.Str(), nil
}

func (e *rodElement) ScrollIntoView(ctx context.Context) error {
	return e.el.Context(ctx).ScrollIntoView()
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}
