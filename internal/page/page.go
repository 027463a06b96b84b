// Package page defines the browser capabilities the harvester consumes and
// the adapters that provide them: a live go-rod page and a static HTML
// snapshot.
package page

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is wrapped by every wait that gave up because its deadline passed.
	ErrTimeout = errors.New("timed out")
	// ErrReadOnly is returned by adapters that cannot act on the document.
	ErrReadOnly = errors.New("page is read-only")
)

// Anchor is one link extracted from an item card.
type Anchor struct {
	URL        string `json:"url"`
	HasVariant bool   `json:"hasVariant"`
}

// Element is a handle to a single matched DOM node.
type Element interface {
	// Text returns the node's textContent, untrimmed.
	Text(ctx context.Context) (string, error)
	ScrollIntoView(ctx context.Context) error
	Click(ctx context.Context) error
}

// Page is the set of page automation operations used by the harvester.
// Implementations must not retain ctx beyond a call.
type Page interface {
	// WaitElement blocks until selector matches at least one node or timeout elapses.
	WaitElement(ctx context.Context, selector string, timeout time.Duration) error
	// WaitCountAbove blocks until selector matches more than n nodes or timeout elapses.
	WaitCountAbove(ctx context.Context, selector string, n int, timeout time.Duration) error
	// QueryAll returns the nodes currently matching selector without waiting.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// ExtractAnchors evaluates every node matching selector in the page and
	// returns those whose URL is not in exclude, in document order.
	// HasVariant reports whether variantSelector matches inside the anchor.
	ExtractAnchors(ctx context.Context, selector, variantSelector string, exclude []string) ([]Anchor, error)
	// Delay pauses for d, returning early with ctx.Err() on cancellation.
	Delay(ctx context.Context, d time.Duration) error
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// timed bounds ctx by timeout. A non-positive timeout leaves only the
// caller's deadline in place. The returned cancel must always be called.
func timed(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// waitErr labels a failed wait, mapping deadline errors onto ErrTimeout.
func waitErr(what string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %s", what, ErrTimeout, timeout)
	}
	return fmt.Errorf("%s: %w", what, err)
}
