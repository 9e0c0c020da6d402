// Package content defines the typed entity model of a generated site: pages,
// articles, datasets and tags, built once per run from content definitions
// and immutable through the render phase.
package content

import (
	"strings"
	"time"
)

// Kind identifies an entity variant.
type Kind string

const (
	KindPage    Kind = "page"
	KindArticle Kind = "article"
	KindDataset Kind = "dataset"
)

// Tag is a label attached to articles and datasets. The set of entities
// carrying a tag is derived by the tag index, never stored here.
type Tag struct {
	Name string
	Slug string
	URL  string // output path of the tag feed, set during assembly
}

// DataFile is a downloadable sub-entity of a Dataset.
type DataFile struct {
	Title       string
	DataLink    string
	Icon        string
	Description string
	License     string
	Extension   string
}

// Base carries the attributes shared by every entity kind. Slug and URL are
// assigned by the assembler's resolution step; everything else is fixed at
// construction.
type Base struct {
	Title       string
	Slug        string
	URL         string
	Content     string // HTML body after markup conversion
	Description string // meta description, falls back per DescriptionOrLead
	Keywords    string // meta keywords, falls back to joined tag names
	Tags        []*Tag
	Homepage    bool // claims the site root
}

// Entity is the closed set of content variants: *Page, *Article, *Dataset.
type Entity interface {
	Kind() Kind
	Common() *Base
}

// Page is static content with no date and no feed membership.
type Page struct {
	Base
	LargeImage   string
	MenuPosition *int // nil keeps the page out of the menu
}

func (p *Page) Kind() Kind    { return KindPage }
func (p *Page) Common() *Base { return &p.Base }

// Article is a dated blog post ordered date-descending in feeds.
type Article struct {
	Base
	Date       time.Time
	Lead       string
	LargeImage string
	SmallImage string
}

func (a *Article) Kind() Kind    { return KindArticle }
func (a *Article) Common() *Base { return &a.Base }

// Dataset is a dated data-catalogue item with optional file sub-entities.
type Dataset struct {
	Base
	Date       time.Time
	Lead       string
	LargeImage string
	SmallImage string
	DataFiles  []DataFile
	DataSource string
	Maintainer string
	License    string
}

func (d *Dataset) Kind() Kind    { return KindDataset }
func (d *Dataset) Common() *Base { return &d.Base }

// EntityDate returns the publication date of dated entities. Pages have none
// and are excluded from chronological feeds.
func EntityDate(e Entity) (time.Time, bool) {
	switch v := e.(type) {
	case *Article:
		return v.Date, true
	case *Dataset:
		return v.Date, true
	default:
		return time.Time{}, false
	}
}

// EntityLead returns the teaser of dated entities.
func EntityLead(e Entity) string {
	switch v := e.(type) {
	case *Article:
		return v.Lead
	case *Dataset:
		return v.Lead
	default:
		return ""
	}
}

// DescriptionOrLead resolves the meta description: explicit description,
// then the lead, then the site-wide default.
func DescriptionOrLead(e Entity, siteDefault string) string {
	if d := e.Common().Description; d != "" {
		return d
	}
	if lead := EntityLead(e); lead != "" {
		return lead
	}
	return siteDefault
}

// KeywordsOrTags resolves meta keywords: explicit keywords, then the joined
// tag names, then the site-wide default.
func KeywordsOrTags(e Entity, siteDefault string) string {
	if k := e.Common().Keywords; k != "" {
		return k
	}
	if tags := e.Common().Tags; len(tags) > 0 {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		return strings.Join(names, ", ")
	}
	return siteDefault
}
