package siteerrors

import (
	"errors"
	"fmt"
)

// Validation reports a missing or malformed required entity field.
func Validation(entityTitle, field, reason string) *SiteError {
	return New(CategoryValidation, fmt.Sprintf("entity %q: field %q %s", entityTitle, field, reason)).
		WithContext("entity", entityTitle).
		WithContext("field", field)
}

// EmptySlug reports a title that normalizes to an empty URL token.
func EmptySlug(entityTitle string) *SiteError {
	return New(CategorySlug, fmt.Sprintf("entity %q: title yields an empty URL token", entityTitle)).
		WithContext("entity", entityTitle)
}

// DuplicateSlug reports two entities resolving to the same URL. Both conflicting
// titles are named; no silent renaming is performed.
func DuplicateSlug(slug, firstTitle, secondTitle string) *SiteError {
	return New(CategorySlug, fmt.Sprintf("slug %q claimed by both %q and %q", slug, firstTitle, secondTitle)).
		WithContext("slug", slug).
		WithContext("first", firstTitle).
		WithContext("second", secondTitle)
}

// Configuration reports an invalid generation parameter.
func Configuration(message string) *SiteError {
	return New(CategoryConfig, message)
}

// Render reports a templating collaborator failure for one entity or listing
// page, identified by title and URL.
func Render(err error, title, url string) *SiteError {
	return Wrap(err, CategoryRender, fmt.Sprintf("render %q (%s)", title, url)).
		WithContext("title", title).
		WithContext("url", url)
}

// IsDuplicateSlug reports whether err is a slug collision (as opposed to an
// empty-token slug error).
func IsDuplicateSlug(err error) bool {
	var se *SiteError
	if !errors.As(err, &se) || se.Category != CategorySlug {
		return false
	}
	_, hasSecond := se.Context["second"]
	return hasSecond
}
