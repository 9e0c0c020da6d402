// Package paginate splits an ordered entity sequence into fixed-size feed
// pages with doubly-linked navigation. Pagination is a pure function of input
// order and page size: identical inputs yield identical page boundaries.
package paginate

import (
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/paths"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

// Page is one view over a slice of the feed's entities. Pages are derived,
// never stored.
type Page struct {
	// Position is zero-based; page 0 holds the newest entities.
	Position int
	// URL is the output path of this page.
	URL string
	// Lead is the distinguished first entity, set only on page 0 of a
	// non-empty feed. It is excluded from Entities to avoid double-rendering.
	Lead content.Entity
	// Entities is the remaining slice for this page, at most pageSize items
	// (pageSize-1 on page 0 when Lead is set).
	Entities []content.Entity
	// NavigationPrevious links to page Position-1; empty on the first page.
	NavigationPrevious string
	// NavigationNext links to page Position+1; empty on the last page.
	NavigationNext string
}

// Feed paginates entities into pages of pageSize rooted at alias (empty alias
// roots the feed at the homepage). An empty sequence produces zero pages;
// pageSize < 1 is a configuration error.
func Feed(entities []content.Entity, pageSize int, alias string, scheme paths.Scheme) ([]Page, error) {
	if pageSize < 1 {
		return nil, siteerrors.Configuration(fmt.Sprintf("page size must be positive, got %d", pageSize))
	}
	if len(entities) == 0 {
		return nil, nil
	}

	count := (len(entities) + pageSize - 1) / pageSize
	pages := make([]Page, 0, count)
	for pos := 0; pos < count; pos++ {
		lo := pos * pageSize
		hi := min(lo+pageSize, len(entities))
		slice := entities[lo:hi]

		p := Page{
			Position: pos,
			URL:      scheme.FeedPage(alias, pos),
			Entities: slice,
		}
		if pos == 0 {
			p.Lead = slice[0]
			p.Entities = slice[1:]
		}
		if pos > 0 {
			p.NavigationPrevious = scheme.FeedPage(alias, pos-1)
		}
		if pos < count-1 {
			p.NavigationNext = scheme.FeedPage(alias, pos+1)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
