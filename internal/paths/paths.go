// Package paths derives output file paths from resolved slugs: entity pages,
// tag feeds, pagination pages and the homepage.
package paths

import "fmt"

// Scheme captures the URL shape of a generated site. The zero value is not
// usable; construct via DefaultScheme or from configuration.
type Scheme struct {
	// Suffix is appended to every generated file, typically ".html".
	Suffix string
	// HomeFile is the homepage file name, typically "index.html" (never "/").
	HomeFile string
	// TagPrefix prefixes tag feed slugs, e.g. "tag-" -> "tag-big-data.html".
	TagPrefix string
	// PageInfix joins a feed alias to its pagination suffix, typically "-".
	PageInfix string
	// PageToken names pagination pages, typically "page-" -> "feed-page-2.html".
	PageToken string
}

// DefaultScheme returns the conventional shape: index.html, ".html" suffix,
// "tag-" prefix and "-page-N" pagination.
func DefaultScheme() Scheme {
	return Scheme{
		Suffix:    ".html",
		HomeFile:  "index.html",
		TagPrefix: "tag-",
		PageInfix: "-",
		PageToken: "page-",
	}
}

// Entity returns the output path for an entity slug. An empty slug addresses
// the homepage.
func (s Scheme) Entity(slug string) string {
	if slug == "" {
		return s.HomeFile
	}
	return slug + s.Suffix
}

// TagAlias returns the feed alias of a tag slug (path without suffix).
func (s Scheme) TagAlias(slug string) string {
	return s.TagPrefix + slug
}

// Tag returns the output path of a tag's feed front page.
func (s Scheme) Tag(slug string) string {
	return s.Entity(s.TagAlias(slug))
}

// FeedPage returns the output path of page n (zero-based) of the feed rooted
// at alias. Page 0 lives at the alias itself; an empty alias roots the feed
// at the homepage, so its later pages are "page-N".
func (s Scheme) FeedPage(alias string, n int) string {
	if n == 0 {
		return s.Entity(alias)
	}
	token := fmt.Sprintf("%s%d", s.PageToken, n)
	if alias == "" {
		return token + s.Suffix
	}
	return alias + s.PageInfix + token + s.Suffix
}
