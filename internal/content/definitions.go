package content

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// Definitions is the raw content input: a mapping keyed by entity kind, each
// value a collection of field mappings. The encoding (YAML file layout) is
// handled by Load; validation happens in Build.
type Definitions struct {
	Pages    []PageDefinition    `yaml:"pages"`
	Articles []ArticleDefinition `yaml:"articles"`
	Datasets []DatasetDefinition `yaml:"datasets"`
}

// PageDefinition describes one static page.
type PageDefinition struct {
	Title        string   `yaml:"title"`
	Content      string   `yaml:"content"`
	Markup       string   `yaml:"markup,omitempty"` // "markdown" (default) or "html"
	Description  string   `yaml:"description,omitempty"`
	Keywords     string   `yaml:"keywords,omitempty"`
	Tags         []string `yaml:"tags,omitempty"`
	LargeImage   string   `yaml:"large_image,omitempty"`
	MenuPosition *int     `yaml:"menu_position,omitempty"`
	Homepage     bool     `yaml:"homepage,omitempty"`
}

// ArticleDefinition describes one dated blog post.
type ArticleDefinition struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Lead        string   `yaml:"lead"`
	Content     string   `yaml:"content"`
	Markup      string   `yaml:"markup,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Keywords    string   `yaml:"keywords,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	LargeImage  string   `yaml:"large_image,omitempty"`
	SmallImage  string   `yaml:"small_image,omitempty"`
}

// DatasetDefinition describes one data-catalogue item.
type DatasetDefinition struct {
	Title       string               `yaml:"title"`
	Date        string               `yaml:"date"`
	Lead        string               `yaml:"lead"`
	Content     string               `yaml:"content"`
	Markup      string               `yaml:"markup,omitempty"`
	Description string               `yaml:"description,omitempty"`
	Keywords    string               `yaml:"keywords,omitempty"`
	Tags        []string             `yaml:"tags,omitempty"`
	LargeImage  string               `yaml:"large_image,omitempty"`
	SmallImage  string               `yaml:"small_image,omitempty"`
	Files       []DataFileDefinition `yaml:"files,omitempty"`
	DataSource  string               `yaml:"data_source,omitempty"`
	Maintainer  string               `yaml:"maintainer,omitempty"`
	License     string               `yaml:"license,omitempty"`
}

// DataFileDefinition describes one downloadable file of a dataset.
type DataFileDefinition struct {
	Title       string `yaml:"title"`
	DataLink    string `yaml:"data_link"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
	License     string `yaml:"license,omitempty"`
	Extension   string `yaml:"extension,omitempty"`
}

// dateFormats are accepted for the date field, tried in order.
var dateFormats = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(title, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, siteerrors.Validation(title, "date", "is required")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, siteerrors.Validation(title, "date", fmt.Sprintf("is unparsable: %q", raw))
}

// buildTags deduplicates tag names preserving first appearance in the source
// definition and derives each tag's slug. Tag URLs are assigned later by the
// assembler.
func buildTags(title string, names []string, reg *tagRegistry) ([]*Tag, error) {
	seen := sets.New[string]()
	tags := make([]*Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, siteerrors.Validation(title, "tags", "contains an empty tag name")
		}
		if seen.Has(name) {
			continue
		}
		seen.Add(name)
		tag, err := reg.intern(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Build validates all definitions and constructs the entity set. Entities come
// back in source order per kind; ordering for feeds is the tag index's and
// paginator's concern. The first invalid definition aborts construction.
func Build(defs Definitions) ([]Entity, error) {
	reg := newTagRegistry()
	entities := make([]Entity, 0, len(defs.Pages)+len(defs.Articles)+len(defs.Datasets))

	for _, def := range defs.Pages {
		p, err := buildPage(def, reg)
		if err != nil {
			return nil, err
		}
		entities = append(entities, p)
	}
	for _, def := range defs.Articles {
		a, err := buildArticle(def, reg)
		if err != nil {
			return nil, err
		}
		entities = append(entities, a)
	}
	for _, def := range defs.Datasets {
		d, err := buildDataset(def, reg)
		if err != nil {
			return nil, err
		}
		entities = append(entities, d)
	}
	return entities, nil
}

func buildBase(title, rawContent, markup, description, keywords string, tagNames []string, reg *tagRegistry) (Base, error) {
	// A blank title can never yield a URL token, so it surfaces as a slug
	// error rather than a field-validation one.
	if strings.TrimSpace(title) == "" {
		return Base{}, siteerrors.EmptySlug(title)
	}
	if strings.TrimSpace(rawContent) == "" {
		return Base{}, siteerrors.Validation(title, "content", "is required")
	}
	html, err := ConvertMarkup(rawContent, markup)
	if err != nil {
		return Base{}, siteerrors.Validation(title, "content", err.Error())
	}
	tags, err := buildTags(title, tagNames, reg)
	if err != nil {
		return Base{}, err
	}
	return Base{
		Title:       title,
		Content:     html,
		Description: description,
		Keywords:    keywords,
		Tags:        tags,
	}, nil
}

func buildPage(def PageDefinition, reg *tagRegistry) (*Page, error) {
	base, err := buildBase(def.Title, def.Content, def.Markup, def.Description, def.Keywords, def.Tags, reg)
	if err != nil {
		return nil, err
	}
	base.Homepage = def.Homepage
	return &Page{
		Base:         base,
		LargeImage:   def.LargeImage,
		MenuPosition: def.MenuPosition,
	}, nil
}

func buildArticle(def ArticleDefinition, reg *tagRegistry) (*Article, error) {
	base, err := buildBase(def.Title, def.Content, def.Markup, def.Description, def.Keywords, def.Tags, reg)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(def.Title, def.Date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(def.Lead) == "" {
		return nil, siteerrors.Validation(def.Title, "lead", "is required")
	}
	return &Article{
		Base:       base,
		Date:       date,
		Lead:       def.Lead,
		LargeImage: def.LargeImage,
		SmallImage: def.SmallImage,
	}, nil
}

func buildDataset(def DatasetDefinition, reg *tagRegistry) (*Dataset, error) {
	base, err := buildBase(def.Title, def.Content, def.Markup, def.Description, def.Keywords, def.Tags, reg)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(def.Title, def.Date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(def.Lead) == "" {
		return nil, siteerrors.Validation(def.Title, "lead", "is required")
	}
	files := make([]DataFile, 0, len(def.Files))
	for _, f := range def.Files {
		if strings.TrimSpace(f.Title) == "" {
			return nil, siteerrors.Validation(def.Title, "files", "contains a file without a title")
		}
		if strings.TrimSpace(f.DataLink) == "" {
			return nil, siteerrors.Validation(def.Title, "files", fmt.Sprintf("file %q has no data_link", f.Title))
		}
		files = append(files, DataFile{
			Title:       f.Title,
			DataLink:    f.DataLink,
			Icon:        f.Icon,
			Description: f.Description,
			License:     f.License,
			Extension:   f.Extension,
		})
	}
	return &Dataset{
		Base:       base,
		Date:       date,
		Lead:       def.Lead,
		LargeImage: def.LargeImage,
		SmallImage: def.SmallImage,
		DataFiles:  files,
		DataSource: def.DataSource,
		Maintainer: def.Maintainer,
		License:    def.License,
	}, nil
}
