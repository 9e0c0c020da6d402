// Package render turns typed template contexts into HTML documents. The
// engine is the templating collaborator of the assembler: render(template,
// context) -> string, with every context an explicit struct so a missing or
// renamed field is a compile-time error rather than a silent blank render.
package render

import "html/template"

// Template names resolvable by the engine. Overrides replace builtins by name.
const (
	TemplateLayout         = "layout.html.tmpl"
	TemplatePage           = "page.html.tmpl"
	TemplateArticle        = "article.html.tmpl"
	TemplateDataset        = "dataset.html.tmpl"
	TemplateListing        = "listing.html.tmpl"
	TemplateDatasetListing = "dataset_listing.html.tmpl"
	TemplateMenu           = "menu.html.tmpl"
	TemplateTagCloud       = "tag_cloud.html.tmpl"
	TemplateRecentPosts    = "recent_posts.html.tmpl"
	TemplateRecentDatasets = "recent_datasets.html.tmpl"
	TemplateSitemap        = "sitemap.xml.tmpl"
)

// TagRef references a tag from an entity or cloud fragment.
type TagRef struct {
	Name string
	URL  string
}

// DataEntity is one downloadable file row of a dataset detail page.
type DataEntity struct {
	Title       string
	DataLink    string
	Icon        string
	Description string
	License     string
	Extension   string
}

// Entity is the detail/preview context shared by articles, datasets and pages.
// Date is pre-formatted by the assembler using the configured layout.
type Entity struct {
	Title          string
	URL            string
	Date           string
	Lead           template.HTML
	Content        template.HTML
	LargeImagePath string
	SmallImagePath string
	Tags           []TagRef

	// Dataset-only fields; zero for other kinds.
	DataEntities []DataEntity
	DataSource   string
	Maintainer   string
	License      string
}

// Listing is one feed page: the optional lead slot plus the remaining
// entity previews and the pagination navigation.
type Listing struct {
	Title              string
	Lead               *Entity
	Entities           []Entity
	EntitiesLength     int
	PagePosition       int
	NavigationPrevious string
	NavigationNext     string
}

// MenuItem is one resolved menu entry.
type MenuItem struct {
	Title    string
	URL      string
	Position int
}

// Menu is the site menu fragment context.
type Menu struct {
	Items []MenuItem
}

// CloudTag is one ranked tag cloud entry.
type CloudTag struct {
	Name  string
	URL   string
	Count int
}

// TagCloud is the tag cloud fragment context.
type TagCloud struct {
	Tags []CloudTag
}

// RecentItem is one entry of a recent posts/datasets fragment.
type RecentItem struct {
	Title string
	URL   string
	Date  string
}

// Recent is the recent posts/datasets fragment context.
type Recent struct {
	Items []RecentItem
}

// Layout wraps a rendered body with the site chrome.
type Layout struct {
	Title           string
	PageContent     template.HTML
	Menu            template.HTML
	RecentPosts     template.HTML
	RecentDatasets  template.HTML
	TagCloud        template.HTML
	Footer          template.HTML
	MetaDescription string
	MetaKeywords    string
	MetaAuthor      string
	HomepageLink    string
	SiteLogoText    string
}

// Sitemap lists every emitted URL, already prefixed for publication.
type Sitemap struct {
	URLs []string
}
