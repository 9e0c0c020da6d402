// Package slug derives URL-safe tokens from entity titles and enforces their
// uniqueness within a single generation run.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

// stripMarks folds diacritics so "Čeština" normalizes to "cestina" rather
// than losing the rune entirely.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts a title to a URL-safe token: fold diacritics, lowercase,
// map any non-alphanumeric run to a single hyphen, trim edge hyphens.
// An empty result is reported as a slug error naming the entity.
func Normalize(title string) (string, error) {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		// Fall back to the raw title; normalization failure only loses
		// diacritic folding, not correctness.
		folded = title
	}

	var b strings.Builder
	lastHyphen := true // swallows leading separators
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	token := strings.TrimSuffix(b.String(), "-")
	if token == "" {
		return "", siteerrors.EmptySlug(title)
	}
	return token, nil
}

// Registry tracks slugs assigned during one generation run. It is constructed
// at run start, threaded explicitly through the assembler, and discarded at
// run end; nothing persists across runs.
type Registry struct {
	owners map[string]string // slug -> title of the claiming entity
}

// NewRegistry creates an empty registry for a fresh generation run.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[string]string)}
}

// Claim records slug as owned by the entity with the given title. A second
// claim for the same slug fails, naming both conflicting entities; no silent
// renaming is performed.
func (r *Registry) Claim(slug, title string) error {
	if first, taken := r.owners[slug]; taken {
		return siteerrors.DuplicateSlug(slug, first, title)
	}
	r.owners[slug] = title
	return nil
}

// Resolve normalizes title and claims the resulting slug in one step.
func (r *Registry) Resolve(title string) (string, error) {
	token, err := Normalize(title)
	if err != nil {
		return "", err
	}
	if err := r.Claim(token, title); err != nil {
		return "", err
	}
	return token, nil
}

// Len returns the number of assigned slugs.
func (r *Registry) Len() int { return len(r.owners) }
