package site

import (
	"git.home.luguber.info/inful/sitebuilder/internal/content"
	"git.home.luguber.info/inful/sitebuilder/internal/paths"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
	"git.home.luguber.info/inful/sitebuilder/internal/slug"
)

// resolution captures the outcome of the slug and URL assignment step.
type resolution struct {
	// homepage is the entity claiming the site root, nil when the article
	// feed roots the site instead.
	homepage content.Entity
	// articlesAlias roots the article feed. Empty means the feed lives at
	// the homepage; otherwise it is the slug of the configured feed title.
	articlesAlias string
}

// resolveEntities assigns slugs and output URLs to every entity and claims
// each resulting path in the registry. Claim order is deterministic (pages,
// articles, datasets, each in feed order) so a collision always names the
// same pair of entities regardless of input file layout.
func resolveEntities(reg *slug.Registry, scheme paths.Scheme, pages []*content.Page, articles []*content.Article, datasets []*content.Dataset) (*resolution, error) {
	res := &resolution{}

	ordered := make([]content.Entity, 0, len(pages)+len(articles)+len(datasets))
	for _, p := range pages {
		ordered = append(ordered, p)
	}
	for _, a := range articles {
		ordered = append(ordered, a)
	}
	for _, d := range datasets {
		ordered = append(ordered, d)
	}

	for _, e := range ordered {
		if !e.Common().Homepage {
			continue
		}
		if res.homepage != nil {
			return nil, siteerrors.New(siteerrors.CategoryValidation, "multiple entities claim the homepage").
				WithContext("first", res.homepage.Common().Title).
				WithContext("second", e.Common().Title)
		}
		res.homepage = e
	}

	for _, e := range ordered {
		base := e.Common()
		if e == res.homepage {
			base.Slug = ""
			base.URL = scheme.HomeFile
			if err := reg.Claim(scheme.HomeFile, base.Title); err != nil {
				return nil, err
			}
			continue
		}
		token, err := slug.Normalize(base.Title)
		if err != nil {
			return nil, err
		}
		path := scheme.Entity(token)
		if err := reg.Claim(path, base.Title); err != nil {
			return nil, err
		}
		base.Slug = token
		base.URL = path
	}

	return res, nil
}

// articlesFeedAlias decides where the article feed lives. With no homepage
// claimant the feed is the homepage itself; otherwise the feed moves to a
// slug derived from its configured title.
func articlesFeedAlias(res *resolution, feedTitle string) (string, error) {
	if res.homepage == nil {
		return "", nil
	}
	alias, err := slug.Normalize(feedTitle)
	if err != nil {
		return "", err
	}
	return alias, nil
}
