package site

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

const testContent = `
pages:
  - title: About
    content: "<p>about us</p>"
    markup: html
    menu_position: 1
articles:
  - title: March
    date: 2020-03-01
    lead: "<p>march lead</p>"
    content: "march body"
    tags: [big-data]
  - title: February
    date: 2020-02-01
    lead: "<p>february lead</p>"
    content: "february body"
    tags: [big-data, python]
  - title: January
    date: 2020-01-01
    lead: "<p>january lead</p>"
    content: "january body"
datasets:
  - title: Traffic Counts
    date: 2020-02-15
    lead: "<p>traffic lead</p>"
    content: "traffic body"
    tags: [big-data]
    files:
      - title: counts.csv
        data_link: https://example.com/counts.csv
        extension: CSV
`

func testAssembler(t *testing.T, contentYAML, configExtra string) (*Assembler, string) {
	t.Helper()
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(contentPath, []byte(contentYAML), 0o644))

	outDir := filepath.Join(dir, "site")
	cfgYAML := `
site:
  title: Test Site
  author: Tester
  description: A test site
pagination:
  page_size: 2
content:
  path: ` + contentPath + `
output:
  directory: ` + outDir + `
` + configExtra
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	engine, err := render.NewEngine("")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, engine, logger, nil), outDir
}

func readDoc(t *testing.T, outDir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, name))
	require.NoError(t, err, "document %s", name)
	return string(data)
}

func TestBuildArticleFeedRootsHomepage(t *testing.T) {
	asm, outDir := testAssembler(t, testContent, "")

	report, err := asm.Build(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 3, report.Articles)
	assert.Equal(t, 1, report.Datasets)
	assert.Equal(t, 2, report.Tags)

	// Page 0: March as lead, February listed, link onward to page 1.
	home := readDoc(t, outDir, "index.html")
	assert.Contains(t, home, `<a href="march.html">March</a>`)
	assert.Contains(t, home, `<h2><a href="february.html">February</a></h2>`)
	// January is on the overflow page, not listed here (the sidebar's recent
	// posts may still link it).
	assert.NotContains(t, home, `<h2><a href="january.html">January</a></h2>`)
	assert.Contains(t, home, `href="page-1.html"`)

	// Page 1: January only, linking back to the homepage.
	overflow := readDoc(t, outDir, "page-1.html")
	assert.Contains(t, overflow, `<h2><a href="january.html">January</a></h2>`)
	assert.Contains(t, overflow, `href="index.html"`)

	// Entity detail documents exist and carry the chrome.
	detail := readDoc(t, outDir, "march.html")
	assert.Contains(t, detail, "march body")
	assert.Contains(t, detail, "<title>March | Test Site</title>")
	assert.Contains(t, detail, `<a href="about.html">About</a>`) // menu

	// Dataset feed and detail.
	datasets := readDoc(t, outDir, "datasets.html")
	assert.Contains(t, datasets, `<a href="traffic-counts.html">Traffic Counts</a>`)
	ds := readDoc(t, outDir, "traffic-counts.html")
	assert.Contains(t, ds, "https://example.com/counts.csv")
}

func TestBuildTagFeeds(t *testing.T) {
	asm, outDir := testAssembler(t, testContent, "")
	_, err := asm.Build(context.Background())
	require.NoError(t, err)

	// big-data carries March, Traffic Counts and February: two pages at size 2.
	tag := readDoc(t, outDir, "tag-big-data.html")
	assert.Contains(t, tag, `<a href="march.html">March</a>`)
	assert.Contains(t, tag, `<a href="traffic-counts.html">Traffic Counts</a>`)
	assert.Contains(t, tag, `href="tag-big-data-page-1.html"`)

	second := readDoc(t, outDir, "tag-big-data-page-1.html")
	assert.Contains(t, second, `<a href="february.html">February</a>`)

	python := readDoc(t, outDir, "tag-python.html")
	assert.Contains(t, python, `<a href="february.html">February</a>`)
	assert.NotContains(t, python, `<h1><a href="march.html">`)
	assert.NotContains(t, python, `<h2><a href="march.html">`)

	// The tag cloud in the chrome ranks big-data (3) before python (1).
	home := readDoc(t, outDir, "index.html")
	bigIdx := strings.Index(home, `href="tag-big-data.html"`)
	pyIdx := strings.Index(home, `href="tag-python.html"`)
	require.GreaterOrEqual(t, bigIdx, 0)
	require.GreaterOrEqual(t, pyIdx, 0)
	assert.Less(t, bigIdx, pyIdx)
}

func TestBuildHomepageClaimant(t *testing.T) {
	claimant := `
pages:
  - title: Welcome
    content: "<p>welcome home</p>"
    markup: html
    homepage: true
articles:
  - title: March
    date: 2020-03-01
    lead: "<p>march lead</p>"
    content: "march body"
`
	asm, outDir := testAssembler(t, claimant, "")
	_, err := asm.Build(context.Background())
	require.NoError(t, err)

	home := readDoc(t, outDir, "index.html")
	assert.Contains(t, home, "welcome home")

	// The article feed moves to the alias derived from its title.
	feed := readDoc(t, outDir, "articles.html")
	assert.Contains(t, feed, `<a href="march.html">March</a>`)
}

func TestBuildRejectsTwoHomepageClaimants(t *testing.T) {
	claimants := `
pages:
  - title: First
    content: "<p>a</p>"
    markup: html
    homepage: true
  - title: Second
    content: "<p>b</p>"
    markup: html
    homepage: true
`
	asm, _ := testAssembler(t, claimants, "")
	_, err := asm.Build(context.Background())
	require.Error(t, err)
	assert.True(t, siteerrors.IsCategory(err, siteerrors.CategoryValidation))
}

func TestBuildRejectsDuplicateSlugs(t *testing.T) {
	duplicates := `
pages:
  - title: "About Us"
    content: "<p>a</p>"
    markup: html
  - title: "About, Us!"
    content: "<p>b</p>"
    markup: html
`
	asm, _ := testAssembler(t, duplicates, "")
	_, err := asm.Build(context.Background())
	require.Error(t, err)
	assert.True(t, siteerrors.IsDuplicateSlug(err))
}

func TestBuildWritesSitemapAndRobots(t *testing.T) {
	asm, outDir := testAssembler(t, testContent, `urls:
  sitemap_prefix: https://example.com
`)
	report, err := asm.Build(context.Background())
	require.NoError(t, err)

	sitemap := readDoc(t, outDir, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://example.com/index.html</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/march.html</loc>")

	robots := readDoc(t, outDir, "robots.txt")
	assert.Contains(t, robots, "User-agent: *")

	assert.Len(t, report.Documents, report.DocumentsWritten)
}

func TestBuildIncludesPageTags(t *testing.T) {
	tagged := `
pages:
  - title: Team
    content: "<p>who we are</p>"
    markup: html
    tags: [people]
articles:
  - title: March
    date: 2020-03-01
    lead: "<p>march lead</p>"
    content: "march body"
    tags: [people]
`
	asm, outDir := testAssembler(t, tagged, "")
	report, err := asm.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tags)

	// The dated article leads the tag feed; the page follows in source order.
	feed := readDoc(t, outDir, "tag-people.html")
	assert.Contains(t, feed, `<h1><a href="march.html">March</a></h1>`)
	assert.Contains(t, feed, `<h2><a href="team.html">Team</a></h2>`)

	// The cloud links the tag and the page detail lists it.
	home := readDoc(t, outDir, "index.html")
	assert.Contains(t, home, `href="tag-people.html"`)
	page := readDoc(t, outDir, "team.html")
	assert.Contains(t, page, `<a href="tag-people.html">people</a>`)
}

func TestBuildEmitsHomepageWithoutArticles(t *testing.T) {
	pagesOnly := `
pages:
  - title: About
    content: "<p>about us</p>"
    markup: html
    menu_position: 1
`
	asm, outDir := testAssembler(t, pagesOnly, "")
	_, err := asm.Build(context.Background())
	require.NoError(t, err)

	// No articles and no claimant still yields a site root, so the home
	// menu entry resolves.
	home := readDoc(t, outDir, "index.html")
	assert.Contains(t, home, `class="listing"`)
	assert.Contains(t, home, `<a href="about.html">About</a>`)
}

func TestBuildWritesDefaultStylesheet(t *testing.T) {
	asm, outDir := testAssembler(t, testContent, "")
	_, err := asm.Build(context.Background())
	require.NoError(t, err)

	// The layout links style.css on every document, so one must exist.
	css := readDoc(t, outDir, "style.css")
	assert.Contains(t, css, "body {")
}

func TestBuildResourceStylesheetWins(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(contentPath, []byte(testContent), 0o644))
	resources := filepath.Join(dir, "resources")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "style.css"), []byte("body { color: red }"), 0o644))

	outDir := filepath.Join(dir, "site")
	cfgYAML := `
site:
  title: Test Site
pagination:
  page_size: 2
content:
  path: ` + contentPath + `
output:
  directory: ` + outDir + `
  resources: ` + resources + `
`
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	engine, err := render.NewEngine("")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err = New(cfg, engine, logger, nil).Build(context.Background())
	require.NoError(t, err)

	css := readDoc(t, outDir, "style.css")
	assert.Equal(t, "body { color: red }", css)
}

func TestBuildIsDeterministic(t *testing.T) {
	asm, outDir := testAssembler(t, testContent, "")
	first, err := asm.Build(context.Background())
	require.NoError(t, err)

	snapshot := make(map[string]string, len(first.Documents))
	for _, doc := range first.Documents {
		snapshot[doc] = readDoc(t, outDir, doc)
	}

	second, err := asm.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Documents, second.Documents)
	assert.NotEqual(t, first.RunID, second.RunID)

	// Re-running on identical input must reproduce every document byte for
	// byte, not just the same path list.
	for _, doc := range second.Documents {
		assert.Equal(t, snapshot[doc], readDoc(t, outDir, doc), "document %s", doc)
	}
}
