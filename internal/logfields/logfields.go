package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyEntity     = "entity"
	KeyKind       = "kind"
	KeySlug       = "slug"
	KeyURL        = "url"
	KeyFeed       = "feed"
	KeyTag        = "tag"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Entity(title string) slog.Attr   { return slog.String(KeyEntity, title) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Feed(name string) slog.Attr      { return slog.String(KeyFeed, name) }
func Tag(name string) slog.Attr       { return slog.String(KeyTag, name) }
func Page(position int) slog.Attr     { return slog.Int(KeyPage, position) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
