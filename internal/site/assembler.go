// Package site assembles a complete static site from content definitions:
// slug resolution, feed pagination, chrome fragments, document rendering and
// output writing, in one deterministic pass per run.
package site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/paginate"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
	"git.home.luguber.info/inful/sitebuilder/internal/slug"
	"git.home.luguber.info/inful/sitebuilder/internal/tagindex"
)

// Assembler orchestrates one generation run. It owns no mutable state across
// runs; every Build starts from the content definitions and a fresh slug
// registry.
type Assembler struct {
	cfg      *config.Config
	renderer render.Renderer
	logger   *slog.Logger
	recorder metrics.Recorder
}

// New creates an assembler. A nil logger falls back to slog.Default and a nil
// recorder to the noop implementation.
func New(cfg *config.Config, renderer render.Renderer, logger *slog.Logger, recorder metrics.Recorder) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Assembler{cfg: cfg, renderer: renderer, logger: logger, recorder: recorder}
}

// tagFeed pairs a tag with its paginated feed.
type tagFeed struct {
	tag   *content.Tag
	pages []paginate.Page
}

// Build runs the full generation pipeline and reports what was written. Any
// error aborts the run; no partial-success mode exists.
func (a *Assembler) Build(ctx context.Context) (_ *Report, err error) {
	started := time.Now()
	runID := uuid.NewString()
	log := a.logger.With(logfields.RunID(runID))

	defer func() {
		a.recorder.ObserveBuildDuration(time.Since(started))
		outcome := "success"
		if err != nil {
			outcome = "failed"
		}
		a.recorder.IncBuildOutcome(outcome)
	}()

	log.Info("starting generation run", logfields.Path(a.cfg.Content.Path))

	stageStart := time.Now()
	defs, err := content.Load(a.cfg.Content.Path)
	if err != nil {
		return nil, err
	}
	entities, err := content.Build(defs)
	if err != nil {
		return nil, err
	}
	a.stage(log, "load", stageStart)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, siteerrors.Wrap(ctxErr, siteerrors.CategoryInternal, "generation canceled")
	}

	pages, articles, datasets := classify(entities)
	a.recorder.SetEntityCount(string(content.KindPage), len(pages))
	a.recorder.SetEntityCount(string(content.KindArticle), len(articles))
	a.recorder.SetEntityCount(string(content.KindDataset), len(datasets))
	log.Info("content loaded",
		slog.Int("pages", len(pages)),
		slog.Int("articles", len(articles)),
		slog.Int("datasets", len(datasets)))

	stageStart = time.Now()
	scheme := a.cfg.Scheme()
	reg := slug.NewRegistry()
	res, err := resolveEntities(reg, scheme, pages, articles, datasets)
	if err != nil {
		return nil, err
	}
	alias, err := articlesFeedAlias(res, a.cfg.Feeds.ArticlesTitle)
	if err != nil {
		return nil, err
	}

	// The tag index covers every entity: dated kinds newest first, then
	// pages in source order, so a tag carried only by a page still gets a
	// feed and a cloud entry.
	tagged := append(datedEntities(articles, datasets), pageEntities(pages)...)
	ix := tagindex.Build(tagged)
	for _, t := range ix.Tags() {
		t.URL = scheme.Tag(t.Slug)
	}

	articleFeed, err := paginate.Feed(articleEntities(articles), a.cfg.Pagination.PageSize, alias, scheme)
	if err != nil {
		return nil, err
	}
	if res.homepage == nil && len(articleFeed) == 0 {
		// The site root must exist even with zero articles; an empty feed
		// page keeps the home menu entry from dangling.
		articleFeed = []paginate.Page{{URL: scheme.FeedPage(alias, 0)}}
	}
	if err := claimFeed(reg, articleFeed, a.cfg.Feeds.ArticlesTitle); err != nil {
		return nil, err
	}

	var datasetFeed []paginate.Page
	if len(datasets) > 0 {
		datasetFeed, err = paginate.Feed(datasetEntities(datasets), a.cfg.Pagination.PageSize, a.cfg.Feeds.DatasetsAlias, scheme)
		if err != nil {
			return nil, err
		}
		if err := claimFeed(reg, datasetFeed, a.cfg.Feeds.DatasetsTitle); err != nil {
			return nil, err
		}
	}

	tagFeeds := make([]tagFeed, 0, ix.Len())
	for _, t := range ix.Tags() {
		feed, feedErr := paginate.Feed(ix.Entities(t.Name), a.cfg.Pagination.PageSize, scheme.TagAlias(t.Slug), scheme)
		if feedErr != nil {
			return nil, feedErr
		}
		if err := claimFeed(reg, feed, "tag "+t.Name); err != nil {
			return nil, err
		}
		tagFeeds = append(tagFeeds, tagFeed{tag: t, pages: feed})
	}
	a.stage(log, "resolve", stageStart)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, siteerrors.Wrap(ctxErr, siteerrors.CategoryInternal, "generation canceled")
	}

	if a.cfg.Output.Clean {
		if err := os.RemoveAll(a.cfg.Output.Directory); err != nil {
			return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "cleaning output directory").
				WithContext("path", a.cfg.Output.Directory)
		}
	}
	writer, err := output.NewWriter(a.cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	stageStart = time.Now()
	ch, err := a.buildChrome(pages, articles, datasets, ix)
	if err != nil {
		return nil, err
	}
	a.stage(log, "chrome", stageStart)

	stageStart = time.Now()
	var written []string
	writeDoc := func(relPath string, body, docTitle, description, keywords string) error {
		layout := render.Layout{
			Title:           docTitle,
			PageContent:     template.HTML(body), // #nosec G203 -- rendered by our own templates
			Menu:            ch.menu,
			RecentPosts:     ch.recentPosts,
			RecentDatasets:  ch.recentDatasets,
			TagCloud:        ch.tagCloud,
			Footer:          ch.footer,
			MetaDescription: description,
			MetaKeywords:    keywords,
			MetaAuthor:      a.cfg.Site.Author,
			HomepageLink:    scheme.HomeFile,
			SiteLogoText:    a.cfg.Site.LogoText,
		}
		doc, renderErr := a.renderer.Render(render.TemplateLayout, layout)
		if renderErr != nil {
			return renderErr
		}
		if _, writeErr := writer.Write(relPath, doc); writeErr != nil {
			return writeErr
		}
		written = append(written, relPath)
		log.Debug("document written", logfields.Path(relPath))
		return nil
	}

	for _, e := range allEntities(pages, articles, datasets) {
		base := e.Common()
		body, renderErr := a.renderer.Render(templateFor(e), entityContext(e, a.cfg.Site.DateFormat))
		if renderErr != nil {
			return nil, siteerrors.Render(renderErr, base.Title, base.URL)
		}
		title := a.documentTitle(base.Title, e == res.homepage)
		desc := content.DescriptionOrLead(e, a.cfg.Site.Description)
		keywords := content.KeywordsOrTags(e, a.cfg.Site.Keywords)
		if err := writeDoc(base.URL, body, title, desc, keywords); err != nil {
			return nil, err
		}
	}

	if err := a.writeFeed(writeDoc, articleFeed, a.cfg.Feeds.ArticlesTitle, res.homepage == nil, render.TemplateListing); err != nil {
		return nil, err
	}
	if err := a.writeFeed(writeDoc, datasetFeed, a.cfg.Feeds.DatasetsTitle, false, render.TemplateDatasetListing); err != nil {
		return nil, err
	}
	for _, tf := range tagFeeds {
		if err := a.writeFeed(writeDoc, tf.pages, tf.tag.Name, false, render.TemplateListing); err != nil {
			return nil, err
		}
	}
	a.stage(log, "render", stageStart)

	stageStart = time.Now()
	if err := a.writeSitemap(writer, written); err != nil {
		return nil, err
	}
	if _, err := writer.Write("robots.txt", a.cfg.Site.RobotsTxt); err != nil {
		return nil, err
	}
	if _, err := writer.Write("style.css", render.DefaultStylesheet); err != nil {
		return nil, err
	}
	copied, err := writer.CopyResources(a.cfg.Output.Resources)
	if err != nil {
		return nil, err
	}
	a.stage(log, "publish", stageStart)

	sort.Strings(written)
	a.recorder.SetDocumentsWritten(len(written))

	report := &Report{
		RunID:            runID,
		StartedAt:        started,
		Duration:         time.Since(started),
		Pages:            len(pages),
		Articles:         len(articles),
		Datasets:         len(datasets),
		Tags:             ix.Len(),
		DocumentsWritten: len(written),
		ResourcesCopied:  copied,
		OutputDir:        writer.Root(),
		Documents:        written,
	}
	log.Info("generation run complete",
		logfields.Count(report.DocumentsWritten),
		logfields.DurationMS(float64(report.Duration)/float64(time.Millisecond)))
	return report, nil
}

// writeFeed renders every page of a feed. Page 0 of the homepage feed takes
// the homepage title; later pages are numbered one-based for readers.
func (a *Assembler) writeFeed(writeDoc func(string, string, string, string, string) error, feed []paginate.Page, feedTitle string, rootsHomepage bool, tmpl string) error {
	for _, p := range feed {
		listTitle := feedTitle
		if p.Position > 0 {
			listTitle = fmt.Sprintf("%s, page %d", feedTitle, p.Position+1)
		}
		body, err := a.renderer.Render(tmpl, listingContext(p, listTitle, a.cfg.Site.DateFormat))
		if err != nil {
			return siteerrors.Render(err, listTitle, p.URL)
		}
		docTitle := a.documentTitle(listTitle, rootsHomepage && p.Position == 0)
		if err := writeDoc(p.URL, body, docTitle, a.cfg.Site.Description, a.cfg.Site.Keywords); err != nil {
			return err
		}
	}
	return nil
}

// documentTitle composes the <title> of a document.
func (a *Assembler) documentTitle(title string, homepage bool) string {
	if homepage && a.cfg.Site.HomepageTitle != "" {
		return a.cfg.Site.HomepageTitle
	}
	if title == "" {
		return a.cfg.Site.Title
	}
	return title + a.cfg.Site.TitleSeparator + a.cfg.Site.Title
}

func (a *Assembler) stage(log *slog.Logger, name string, started time.Time) {
	d := time.Since(started)
	a.recorder.ObserveStageDuration(name, d)
	log.Debug("stage complete", logfields.Stage(name), logfields.DurationMS(float64(d)/float64(time.Millisecond)))
}

// classify splits entities by kind and orders the dated kinds newest first,
// ties broken by title so runs are reproducible.
func classify(entities []content.Entity) ([]*content.Page, []*content.Article, []*content.Dataset) {
	var pages []*content.Page
	var articles []*content.Article
	var datasets []*content.Dataset
	for _, e := range entities {
		switch v := e.(type) {
		case *content.Page:
			pages = append(pages, v)
		case *content.Article:
			articles = append(articles, v)
		case *content.Dataset:
			datasets = append(datasets, v)
		}
	}
	sort.SliceStable(articles, func(i, j int) bool {
		if !articles[i].Date.Equal(articles[j].Date) {
			return articles[i].Date.After(articles[j].Date)
		}
		return articles[i].Title < articles[j].Title
	})
	sort.SliceStable(datasets, func(i, j int) bool {
		if !datasets[i].Date.Equal(datasets[j].Date) {
			return datasets[i].Date.After(datasets[j].Date)
		}
		return datasets[i].Title < datasets[j].Title
	})
	return pages, articles, datasets
}

// datedEntities merges articles and datasets newest first for the tag index,
// so every tag feed interleaves both kinds chronologically.
func datedEntities(articles []*content.Article, datasets []*content.Dataset) []content.Entity {
	out := make([]content.Entity, 0, len(articles)+len(datasets))
	for _, a := range articles {
		out = append(out, a)
	}
	for _, d := range datasets {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := content.EntityDate(out[i])
		dj, _ := content.EntityDate(out[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].Common().Title < out[j].Common().Title
	})
	return out
}

func pageEntities(pages []*content.Page) []content.Entity {
	out := make([]content.Entity, len(pages))
	for i, p := range pages {
		out[i] = p
	}
	return out
}

func articleEntities(articles []*content.Article) []content.Entity {
	out := make([]content.Entity, len(articles))
	for i, a := range articles {
		out[i] = a
	}
	return out
}

func datasetEntities(datasets []*content.Dataset) []content.Entity {
	out := make([]content.Entity, len(datasets))
	for i, d := range datasets {
		out[i] = d
	}
	return out
}

func allEntities(pages []*content.Page, articles []*content.Article, datasets []*content.Dataset) []content.Entity {
	out := make([]content.Entity, 0, len(pages)+len(articles)+len(datasets))
	for _, p := range pages {
		out = append(out, p)
	}
	for _, a := range articles {
		out = append(out, a)
	}
	for _, d := range datasets {
		out = append(out, d)
	}
	return out
}

// claimFeed reserves every page path of a feed so entity slugs cannot shadow
// pagination pages.
func claimFeed(reg *slug.Registry, feed []paginate.Page, owner string) error {
	for _, p := range feed {
		if err := reg.Claim(p.URL, owner+" feed"); err != nil {
			return err
		}
	}
	return nil
}

func templateFor(e content.Entity) string {
	switch e.Kind() {
	case content.KindArticle:
		return render.TemplateArticle
	case content.KindDataset:
		return render.TemplateDataset
	default:
		return render.TemplatePage
	}
}
