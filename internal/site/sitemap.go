package site

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
)

// writeSitemap emits sitemap.xml listing every generated document, sorted so
// reruns produce identical bytes. URLs are prefixed with the configured
// sitemap prefix (falling back to the site base URL) when one is set.
func (a *Assembler) writeSitemap(writer *output.Writer, documents []string) error {
	prefix := a.cfg.URLs.SitemapPrefix
	if prefix == "" {
		prefix = a.cfg.Site.BaseURL
	}
	prefix = strings.TrimSuffix(prefix, "/")

	urls := make([]string, len(documents))
	for i, doc := range documents {
		if prefix == "" {
			urls[i] = doc
			continue
		}
		urls[i] = prefix + "/" + doc
	}
	sort.Strings(urls)

	body, err := a.renderer.Render(render.TemplateSitemap, render.Sitemap{URLs: urls})
	if err != nil {
		return err
	}
	_, err = writer.Write("sitemap.xml", body)
	return err
}
