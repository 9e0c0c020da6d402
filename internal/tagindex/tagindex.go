// Package tagindex derives the tag→entities mapping and the tag cloud from
// an ordered entity sequence. The index is a pure function of its input:
// rebuildable at any time, never mutated directly.
package tagindex

import (
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/content"
)

// Entry is one tag with its usage count.
type Entry struct {
	Tag   *content.Tag
	Count int
}

// Index maps tags to the entities carrying them.
type Index struct {
	entries  []Entry                      // count desc, then name asc
	entities map[string][]content.Entity  // tag name -> entities in input order
}

// Build constructs the index from the given entity sequence. Each tag's
// entity listing preserves the sequence's global ordering, so callers pass
// entities already in feed order (date-descending for dated kinds).
func Build(entities []content.Entity) *Index {
	byName := make(map[string][]content.Entity)
	tags := make(map[string]*content.Tag)
	for _, e := range entities {
		for _, t := range e.Common().Tags {
			byName[t.Name] = append(byName[t.Name], e)
			tags[t.Name] = t
		}
	}

	entries := make([]Entry, 0, len(byName))
	for name, carrying := range byName {
		entries = append(entries, Entry{Tag: tags[name], Count: len(carrying)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Tag.Name < entries[j].Tag.Name
	})

	return &Index{entries: entries, entities: byName}
}

// Tags returns all distinct tags, most used first, ties broken alphabetically.
func (ix *Index) Tags() []*content.Tag {
	out := make([]*content.Tag, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.Tag
	}
	return out
}

// Cloud returns the ranked tag cloud, capped at max entries (0 means all).
func (ix *Index) Cloud(max int) []Entry {
	if max <= 0 || max > len(ix.entries) {
		max = len(ix.entries)
	}
	out := make([]Entry, max)
	copy(out, ix.entries[:max])
	return out
}

// Entities returns the ordered entities carrying the named tag.
func (ix *Index) Entities(tagName string) []content.Entity {
	return ix.entities[tagName]
}

// Len returns the number of distinct tags.
func (ix *Index) Len() int { return len(ix.entries) }
