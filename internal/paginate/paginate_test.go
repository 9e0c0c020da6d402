package paginate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/paths"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

func article(title string, date time.Time) *content.Article {
	return &content.Article{
		Base: content.Base{Title: title, Content: "<p>body</p>"},
		Date: date,
		Lead: "lead",
	}
}

func articles(n int) []content.Entity {
	out := make([]content.Entity, n)
	for i := range out {
		// Newest first, matching feed order.
		out[i] = article(fmt.Sprintf("Post %d", n-i), time.Date(2021, 1, n-i, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func TestFeedThreeArticlesPageSizeTwo(t *testing.T) {
	march := article("March", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))
	february := article("February", time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC))
	january := article("January", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	pages, err := Feed([]content.Entity{march, february, january}, 2, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	p0 := pages[0]
	assert.Equal(t, 0, p0.Position)
	assert.Equal(t, "articles.html", p0.URL)
	require.NotNil(t, p0.Lead)
	assert.Equal(t, "March", p0.Lead.Common().Title)
	require.Len(t, p0.Entities, 1)
	assert.Equal(t, "February", p0.Entities[0].Common().Title)
	assert.Empty(t, p0.NavigationPrevious)
	assert.Equal(t, "articles-page-1.html", p0.NavigationNext)

	p1 := pages[1]
	assert.Equal(t, 1, p1.Position)
	assert.Equal(t, "articles-page-1.html", p1.URL)
	assert.Nil(t, p1.Lead)
	require.Len(t, p1.Entities, 1)
	assert.Equal(t, "January", p1.Entities[0].Common().Title)
	assert.Equal(t, "articles.html", p1.NavigationPrevious)
	assert.Empty(t, p1.NavigationNext)
}

func TestFeedPageCountAndSizes(t *testing.T) {
	cases := []struct {
		n, pageSize, wantPages, wantLast int
	}{
		{1, 7, 1, 1},
		{7, 7, 1, 7},
		{8, 7, 2, 1},
		{14, 7, 2, 7},
		{15, 7, 3, 1},
		{5, 1, 5, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d size=%d", tc.n, tc.pageSize), func(t *testing.T) {
			pages, err := Feed(articles(tc.n), tc.pageSize, "feed", paths.DefaultScheme())
			require.NoError(t, err)
			require.Len(t, pages, tc.wantPages)

			total := 0
			for i, p := range pages {
				got := len(p.Entities)
				if p.Lead != nil {
					got++
				}
				if i < len(pages)-1 {
					assert.Equal(t, tc.pageSize, got, "page %d should be full", i)
				} else {
					assert.Equal(t, tc.wantLast, got, "last page size")
				}
				total += got
			}
			assert.Equal(t, tc.n, total)
		})
	}
}

func TestFeedNavigationChainIsConsistent(t *testing.T) {
	pages, err := Feed(articles(15), 4, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	require.Len(t, pages, 4)

	assert.Empty(t, pages[0].NavigationPrevious)
	assert.Empty(t, pages[len(pages)-1].NavigationNext)
	for i := 0; i < len(pages)-1; i++ {
		assert.Equal(t, pages[i+1].URL, pages[i].NavigationNext, "page %d next", i)
		assert.Equal(t, pages[i].URL, pages[i+1].NavigationPrevious, "page %d previous", i+1)
	}
}

func TestFeedSinglePageHasNoNavigation(t *testing.T) {
	pages, err := Feed(articles(3), 7, "tag-go", paths.DefaultScheme())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].NavigationPrevious)
	assert.Empty(t, pages[0].NavigationNext)
}

func TestFeedEmptyInputProducesNoPages(t *testing.T) {
	pages, err := Feed(nil, 7, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestFeedRejectsNonPositivePageSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Feed(articles(3), size, "articles", paths.DefaultScheme())
		require.Error(t, err)
		assert.True(t, siteerrors.IsCategory(err, siteerrors.CategoryConfig))
	}
}

func TestFeedLeadSlotWithPageSizeOne(t *testing.T) {
	pages, err := Feed(articles(2), 1, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// Page 0 carries only the lead; the remaining slice is empty.
	require.NotNil(t, pages[0].Lead)
	assert.Empty(t, pages[0].Entities)
	assert.Nil(t, pages[1].Lead)
	assert.Len(t, pages[1].Entities, 1)
}

func TestFeedIsDeterministic(t *testing.T) {
	input := articles(9)
	first, err := Feed(input, 4, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	second, err := Feed(input, 4, "articles", paths.DefaultScheme())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFeedHomepageAlias(t *testing.T) {
	pages, err := Feed(articles(3), 2, "", paths.DefaultScheme())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "index.html", pages[0].URL)
	assert.Equal(t, "page-1.html", pages[1].URL)
	assert.Equal(t, "page-1.html", pages[0].NavigationNext)
	assert.Equal(t, "index.html", pages[1].NavigationPrevious)
}
