package site

import (
	"html/template"
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/tagindex"
)

// chrome holds the shared fragments rendered once per run and injected into
// every document's layout.
type chrome struct {
	menu           template.HTML
	recentPosts    template.HTML
	recentDatasets template.HTML
	tagCloud       template.HTML
	footer         template.HTML
}

// buildChrome renders the shared fragments. Tag URLs must already be assigned
// when this runs; the cloud links straight to the tag feeds.
func (a *Assembler) buildChrome(pages []*content.Page, articles []*content.Article, datasets []*content.Dataset, ix *tagindex.Index) (*chrome, error) {
	c := &chrome{footer: template.HTML(a.cfg.Site.Footer)} // #nosec G203 -- operator-supplied fragment

	menuHTML, err := a.renderMenu(pages)
	if err != nil {
		return nil, err
	}
	c.menu = template.HTML(menuHTML) // #nosec G203 -- rendered by our own template

	posts := render.Recent{}
	for _, art := range articles {
		if len(posts.Items) == a.cfg.Chrome.MaxRecentPosts {
			break
		}
		posts.Items = append(posts.Items, render.RecentItem{
			Title: art.Title,
			URL:   art.URL,
			Date:  formatDate(art.Date, a.cfg.Site.DateFormat),
		})
	}
	postsHTML, err := a.renderer.Render(render.TemplateRecentPosts, posts)
	if err != nil {
		return nil, err
	}
	c.recentPosts = template.HTML(postsHTML) // #nosec G203

	recent := render.Recent{}
	for _, ds := range datasets {
		if len(recent.Items) == a.cfg.Chrome.MaxRecentDatasets {
			break
		}
		recent.Items = append(recent.Items, render.RecentItem{
			Title: ds.Title,
			URL:   ds.URL,
			Date:  formatDate(ds.Date, a.cfg.Site.DateFormat),
		})
	}
	recentHTML, err := a.renderer.Render(render.TemplateRecentDatasets, recent)
	if err != nil {
		return nil, err
	}
	c.recentDatasets = template.HTML(recentHTML) // #nosec G203

	cloud := render.TagCloud{}
	for _, entry := range ix.Cloud(a.cfg.Chrome.MaxTagCloud) {
		cloud.Tags = append(cloud.Tags, render.CloudTag{
			Name:  entry.Tag.Name,
			URL:   entry.Tag.URL,
			Count: entry.Count,
		})
	}
	cloudHTML, err := a.renderer.Render(render.TemplateTagCloud, cloud)
	if err != nil {
		return nil, err
	}
	c.tagCloud = template.HTML(cloudHTML) // #nosec G203

	return c, nil
}

// renderMenu merges pages carrying a menu position with configured menu
// entries, ordered by position (ties keep page entries before configured
// ones, then input order).
func (a *Assembler) renderMenu(pages []*content.Page) (string, error) {
	items := make([]render.MenuItem, 0, len(pages)+len(a.cfg.Chrome.Menu))
	for _, p := range pages {
		if p.MenuPosition == nil {
			continue
		}
		items = append(items, render.MenuItem{
			Title:    p.Title,
			URL:      p.URL,
			Position: *p.MenuPosition,
		})
	}
	for _, m := range a.cfg.Chrome.Menu {
		url := m.URL
		if url == "home" {
			url = a.cfg.Scheme().HomeFile
		}
		items = append(items, render.MenuItem{Title: m.Title, URL: url, Position: m.Position})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	return a.renderer.Render(render.TemplateMenu, render.Menu{Items: items})
}
