package site

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/paginate"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
)

// entityContext converts an entity into its render context. Dates are
// formatted here so templates never deal with time values.
func entityContext(e content.Entity, dateLayout string) render.Entity {
	base := e.Common()
	ec := render.Entity{
		Title:   base.Title,
		URL:     base.URL,
		Content: template.HTML(base.Content), // #nosec G203 -- produced by markup conversion
		Lead:    template.HTML(content.EntityLead(e)),
		Tags:    tagRefs(base.Tags),
	}
	if date, ok := content.EntityDate(e); ok {
		ec.Date = formatDate(date, dateLayout)
	}

	switch v := e.(type) {
	case *content.Page:
		ec.LargeImagePath = v.LargeImage
	case *content.Article:
		ec.LargeImagePath = v.LargeImage
		ec.SmallImagePath = v.SmallImage
	case *content.Dataset:
		ec.LargeImagePath = v.LargeImage
		ec.SmallImagePath = v.SmallImage
		ec.DataSource = v.DataSource
		ec.Maintainer = v.Maintainer
		ec.License = v.License
		for _, f := range v.DataFiles {
			ec.DataEntities = append(ec.DataEntities, render.DataEntity{
				Title:       f.Title,
				DataLink:    f.DataLink,
				Icon:        f.Icon,
				Description: f.Description,
				License:     f.License,
				Extension:   f.Extension,
			})
		}
	}
	return ec
}

// listingContext converts a feed page into its render context.
func listingContext(p paginate.Page, title, dateLayout string) render.Listing {
	lc := render.Listing{
		Title:              title,
		EntitiesLength:     len(p.Entities),
		PagePosition:       p.Position,
		NavigationPrevious: p.NavigationPrevious,
		NavigationNext:     p.NavigationNext,
	}
	if p.Lead != nil {
		lead := entityContext(p.Lead, dateLayout)
		lc.Lead = &lead
	}
	for _, e := range p.Entities {
		lc.Entities = append(lc.Entities, entityContext(e, dateLayout))
	}
	return lc
}

func tagRefs(tags []*content.Tag) []render.TagRef {
	if len(tags) == 0 {
		return nil
	}
	refs := make([]render.TagRef, len(tags))
	for i, t := range tags {
		refs[i] = render.TagRef{Name: t.Name, URL: t.URL}
	}
	return refs
}

func formatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = "January 2, 2006"
	}
	return t.Format(layout)
}
