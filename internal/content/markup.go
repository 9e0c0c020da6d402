package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the shared converter; goldmark converters are safe for concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ConvertMarkup turns an authored body into HTML. Supported markup values are
// "markdown" (the default) and "html" (passed through verbatim).
func ConvertMarkup(body, markup string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(markup)) {
	case "", "markdown", "md":
		var buf bytes.Buffer
		if err := md.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("convert markdown: %w", err)
		}
		return buf.String(), nil
	case "html":
		return body, nil
	default:
		return "", fmt.Errorf("unsupported markup %q", markup)
	}
}
