package content

import (
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
	"git.home.luguber.info/inful/sitebuilder/internal/slug"
)

// tagRegistry interns tags by name during construction so that every entity
// carrying "Big Data" shares one *Tag, and the assembler can assign the tag
// feed URL in a single place.
type tagRegistry struct {
	byName map[string]*Tag
	bySlug map[string]string // slug -> first tag name, for collision reporting
}

func newTagRegistry() *tagRegistry {
	return &tagRegistry{
		byName: make(map[string]*Tag),
		bySlug: make(map[string]string),
	}
}

func (r *tagRegistry) intern(name string) (*Tag, error) {
	if t, ok := r.byName[name]; ok {
		return t, nil
	}
	token, err := slug.Normalize(name)
	if err != nil {
		return nil, err
	}
	if first, taken := r.bySlug[token]; taken {
		// Two distinct tag names collapsing to one slug would merge feeds.
		return nil, siteerrors.DuplicateSlug(token, first, name)
	}
	t := &Tag{Name: name, Slug: token}
	r.byName[name] = t
	r.bySlug[token] = name
	return t, nil
}
