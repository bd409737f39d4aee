package pcs

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"peloton/internal/roster"
)

// ParseStartlist extracts riders from a startlist HTML page.
//
// Every anchor pointing at a rider page counts as one startlist entry; the
// anchor text is the display name and the rider path is the key. Duplicate
// keys collapse to the first occurrence. An unpublished startlist simply
// has no rider anchors and yields an empty slice.
func ParseStartlist(r io.Reader) ([]roster.Rider, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var riders []roster.Rider
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		key := riderKey(href)
		if key == "" {
			return
		}
		name := strings.Join(strings.Fields(sel.Text()), " ")
		if name == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		riders = append(riders, roster.Rider{Name: name, Key: key})
	})

	return riders, nil
}

// riderKey reduces an anchor href to a rider path key, or "" when the
// anchor does not point at a rider page.
func riderKey(href string) string {
	href = strings.TrimSpace(href)
	if idx := strings.Index(href, "://"); idx >= 0 {
		rest := href[idx+len("://"):]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			href = rest[slash+1:]
		} else {
			return ""
		}
	}
	href = strings.Trim(href, "/")
	if cut := strings.IndexAny(href, "?#"); cut >= 0 {
		href = href[:cut]
	}
	if !strings.HasPrefix(href, "rider/") || href == "rider/" {
		return ""
	}
	return href
}
