package listing

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"listharvest/internal/harvest"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ListingContent holds the records harvested from one listing page and
// implements scraper.Content.
type ListingContent struct {
	source   string
	target   int // 0 when the harvest was unbounded
	progress harvest.Progress
	reason   harvest.StopReason
	items    []harvest.ItemRecord
}

// NewListingContent creates a ListingContent from a finished harvest.
func NewListingContent(source string, target int, progress harvest.Progress, res *harvest.Result) *ListingContent {
	return &ListingContent{
		source:   source,
		target:   target,
		progress: progress,
		reason:   res.Reason,
		items:    res.Items.Items(),
	}
}

// Items returns the harvested records in discovery order.
func (c *ListingContent) Items() []harvest.ItemRecord {
	return c.items
}

func (c *ListingContent) summary() string {
	s := fmt.Sprintf("%d items", len(c.items))
	if c.target > 0 {
		s += fmt.Sprintf(" of %d requested", c.target)
	}
	if c.progress.Source != harvest.SourceUnavailable {
		s += fmt.Sprintf(", page reported %d of %d", c.progress.Current, c.progress.Total)
	}
	return s + fmt.Sprintf(" (%s)", c.reason)
}

func (c *ListingContent) ToMarkdown() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Listing: %s\n\n", c.source))
	sb.WriteString(c.summary() + "\n\n")
	sb.WriteString("| # | URL | Variants |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for i, it := range c.items {
		variants := ""
		if it.HasVariant {
			variants = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, strings.ReplaceAll(it.URL, "|", "%7C"), variants))
	}
	return sb.String(), nil
}

func (c *ListingContent) ToHTML() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Listing: %s</h1>\n", html.EscapeString(c.source)))
	sb.WriteString(fmt.Sprintf("<p>%s</p>\n<ol>\n", html.EscapeString(c.summary())))
	for _, it := range c.items {
		u := html.EscapeString(it.URL)
		sb.WriteString(fmt.Sprintf("  <li><a href=\"%s\">%s</a>", u, u))
		if it.HasVariant {
			sb.WriteString(" (variants)")
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ol>\n")
	return sb.String(), nil
}

// ToText renders the HTML view as plain text.
func (c *ListingContent) ToText() (string, error) {
	h, err := c.ToHTML()
	if err != nil {
		return "", err
	}
	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(h)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to text: %w", err)
	}
	return text, nil
}

type jsonListing struct {
	Source   string               `json:"source"`
	Target   int                  `json:"target"`
	Progress harvest.Progress     `json:"progress"`
	Reason   harvest.StopReason   `json:"reason"`
	Count    int                  `json:"count"`
	Items    []harvest.ItemRecord `json:"items"`
}

func (c *ListingContent) ToJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []harvest.ItemRecord{}
	}
	return json.MarshalIndent(jsonListing{
		Source:   c.source,
		Target:   c.target,
		Progress: c.progress,
		Reason:   c.reason,
		Count:    len(items),
		Items:    items,
	}, "", "  ")
}

func (c *ListingContent) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"URL", "HasVariant"})
	for _, it := range c.items {
		_ = w.Write([]string{it.URL, strconv.FormatBool(it.HasVariant)})
	}
	w.Flush()
	return buf.String(), w.Error()
}
