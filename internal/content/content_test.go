package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

func TestBuildConstructsAllKinds(t *testing.T) {
	defs := Definitions{
		Pages: []PageDefinition{
			{Title: "About", Content: "# About\n\nHello.", MenuPosition: intPtr(1)},
		},
		Articles: []ArticleDefinition{
			{Title: "Post", Date: "2024-01-15", Lead: "<p>lead</p>", Content: "body", Tags: []string{"Go", "Testing"}},
		},
		Datasets: []DatasetDefinition{
			{
				Title: "Counts", Date: "2024-02-01T10:30:00", Lead: "<p>lead</p>", Content: "body",
				Files: []DataFileDefinition{{Title: "counts.csv", DataLink: "https://example.com/counts.csv"}},
			},
		},
	}

	entities, err := Build(defs)
	require.NoError(t, err)
	require.Len(t, entities, 3)

	page, ok := entities[0].(*Page)
	require.True(t, ok)
	assert.Equal(t, KindPage, page.Kind())
	assert.Contains(t, page.Content, "<h1>About</h1>")
	require.NotNil(t, page.MenuPosition)
	assert.Equal(t, 1, *page.MenuPosition)

	article, ok := entities[1].(*Article)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), article.Date)
	require.Len(t, article.Tags, 2)
	assert.Equal(t, "go", article.Tags[0].Slug)

	dataset, ok := entities[2].(*Dataset)
	require.True(t, ok)
	require.Len(t, dataset.DataFiles, 1)
	assert.Equal(t, "counts.csv", dataset.DataFiles[0].Title)
}

func TestBuildValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		defs Definitions
	}{
		{"page without content", Definitions{Pages: []PageDefinition{{Title: "T"}}}},
		{"article without date", Definitions{Articles: []ArticleDefinition{{Title: "T", Lead: "l", Content: "x"}}}},
		{"article with bad date", Definitions{Articles: []ArticleDefinition{{Title: "T", Date: "sometime", Lead: "l", Content: "x"}}}},
		{"article without lead", Definitions{Articles: []ArticleDefinition{{Title: "T", Date: "2024-01-01", Content: "x"}}}},
		{"dataset file without link", Definitions{Datasets: []DatasetDefinition{{
			Title: "T", Date: "2024-01-01", Lead: "l", Content: "x",
			Files: []DataFileDefinition{{Title: "f.csv"}},
		}}}},
		{"empty tag name", Definitions{Pages: []PageDefinition{{Title: "T", Content: "x", Tags: []string{" "}}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.defs)
			require.Error(t, err)
			assert.True(t, siteerrors.IsCategory(err, siteerrors.CategoryValidation))
		})
	}
}

func TestBuildEmptyTitleIsSlugError(t *testing.T) {
	cases := []struct {
		name string
		defs Definitions
	}{
		{"page", Definitions{Pages: []PageDefinition{{Content: "x"}}}},
		{"article", Definitions{Articles: []ArticleDefinition{{Date: "2024-01-01", Lead: "l", Content: "x"}}}},
		{"whitespace title", Definitions{Articles: []ArticleDefinition{{Title: "   ", Date: "2024-01-01", Lead: "l", Content: "x"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.defs)
			require.Error(t, err)
			assert.True(t, siteerrors.IsCategory(err, siteerrors.CategorySlug))
			assert.False(t, siteerrors.IsDuplicateSlug(err))
		})
	}
}

func TestBuildInternsTagsAcrossEntities(t *testing.T) {
	defs := Definitions{
		Articles: []ArticleDefinition{
			{Title: "One", Date: "2024-01-01", Lead: "l", Content: "x", Tags: []string{"Big Data", "Big Data", "Python"}},
			{Title: "Two", Date: "2024-01-02", Lead: "l", Content: "x", Tags: []string{"Big Data"}},
		},
	}

	entities, err := Build(defs)
	require.NoError(t, err)

	one := entities[0].(*Article)
	two := entities[1].(*Article)

	// Duplicate names within one entity collapse, first appearance wins.
	require.Len(t, one.Tags, 2)
	assert.Equal(t, "Big Data", one.Tags[0].Name)
	assert.Equal(t, "Python", one.Tags[1].Name)

	// The same name yields the same *Tag across entities.
	assert.Same(t, one.Tags[0], two.Tags[0])
}

func TestBuildRejectsTagSlugCollision(t *testing.T) {
	defs := Definitions{
		Articles: []ArticleDefinition{
			{Title: "One", Date: "2024-01-01", Lead: "l", Content: "x", Tags: []string{"Big Data", "Big, Data!"}},
		},
	}
	_, err := Build(defs)
	require.Error(t, err)
	assert.True(t, siteerrors.IsDuplicateSlug(err))
}

func TestConvertMarkup(t *testing.T) {
	out, err := ConvertMarkup("# Title\n\nSome *emphasis*.", "")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<em>emphasis</em>")

	raw, err := ConvertMarkup("<div>as is</div>", "html")
	require.NoError(t, err)
	assert.Equal(t, "<div>as is</div>", raw)

	_, err = ConvertMarkup("x", "restructuredtext")
	assert.Error(t, err)
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages:
  - title: Home
    content: hello
`), 0o644))

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs.Pages, 1)
	assert.Equal(t, "Home", defs.Pages[0].Title)
}

func TestLoadDirectoryMergesSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-articles.yaml"), []byte(`
articles:
  - title: Second
    date: 2024-01-02
    lead: l
    content: x
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-articles.yml"), []byte(`
articles:
  - title: First
    date: 2024-01-01
    lead: l
    content: x
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	defs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, defs.Articles, 2)
	// Files merge in lexical order regardless of creation order.
	assert.Equal(t, "First", defs.Articles[0].Title)
	assert.Equal(t, "Second", defs.Articles[1].Title)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, siteerrors.IsCategory(err, siteerrors.CategorySource))
}

func TestMetaFallbacks(t *testing.T) {
	article := &Article{
		Base: Base{Title: "T", Tags: []*Tag{{Name: "Go"}, {Name: "Web"}}},
		Lead: "<p>the lead</p>",
	}
	assert.Equal(t, "<p>the lead</p>", DescriptionOrLead(article, "site default"))
	assert.Equal(t, "Go, Web", KeywordsOrTags(article, "site default"))

	article.Description = "explicit"
	article.Keywords = "a, b"
	assert.Equal(t, "explicit", DescriptionOrLead(article, "site default"))
	assert.Equal(t, "a, b", KeywordsOrTags(article, "site default"))

	page := &Page{Base: Base{Title: "P"}}
	assert.Equal(t, "site default", DescriptionOrLead(page, "site default"))
	assert.Equal(t, "site default", KeywordsOrTags(page, "site default"))
}

func intPtr(v int) *int { return &v }
