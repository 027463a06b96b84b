package page

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Static serves a saved HTML document. Its content never changes, so waits
// resolve immediately and clicks fail with ErrReadOnly.
type Static struct {
	doc  *goquery.Document
	base *url.URL
}

// NewStatic parses r. Relative hrefs resolve against baseURL and any <base>
// element in the document, the way a browser computes a.href.
func NewStatic(r io.Reader, baseURL string) (*Static, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL '%s': %w", baseURL, err)
		}
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			if base != nil {
				ref = base.ResolveReference(ref)
			}
			base = ref
		}
	}

	return &Static{doc: doc, base: base}, nil
}

// LoadStatic reads a snapshot from path.
func LoadStatic(path, baseURL string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return NewStatic(f, baseURL)
}

func (s *Static) WaitElement(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("wait for element '%s': %w (static snapshot)", selector, ErrTimeout)
	}
	return nil
}

func (s *Static) WaitCountAbove(ctx context.Context, selector string, n int, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.doc.Find(selector).Length() <= n {
		return fmt.Errorf("wait for more than %d '%s': %w (static snapshot)", n, selector, ErrTimeout)
	}
	return nil
}

func (s *Static) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Element
	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, &staticElement{sel: sel})
	})
	return out, nil
}

func (s *Static) ExtractAnchors(ctx context.Context, selector, variantSelector string, exclude []string) ([]Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(exclude))
	for _, u := range exclude {
		seen[u] = struct{}{}
	}

	var anchors []Anchor
	s.doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		abs := s.resolve(href)
		if abs == "" {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		anchors = append(anchors, Anchor{
			URL:        abs,
			HasVariant: variantSelector != "" && a.Find(variantSelector).Length() > 0,
		})
	})
	return anchors, nil
}

func (s *Static) Delay(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

// resolve returns href as an absolute URL when a base is known.
func (s *Static) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if s.base == nil {
		return ref.String()
	}
	return s.base.ResolveReference(ref).String()
}

type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) Text(ctx context.Context) (string, error) {
	return e.sel.Text(), nil
}

// ScrollIntoView is a no-op; a snapshot has no viewport.
func (e *staticElement) ScrollIntoView(ctx context.Context) error {
	return nil
}

func (e *staticElement) Click(ctx context.Context) error {
	return fmt.Errorf("click: %w", ErrReadOnly)
}
