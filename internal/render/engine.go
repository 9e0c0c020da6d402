package render

import (
	"embed"
	"html/template"
	"os"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

//go:embed builtin/*.tmpl
var builtinFS embed.FS

// DefaultStylesheet backs the style.css link every layout emits. The
// assembler writes it before copying resources, so a site shipping its own
// style.css replaces it.
//
//go:embed builtin/style.css
var DefaultStylesheet string

// Renderer is the templating collaborator of the site assembler. Implementations
// resolve a template by name and execute it against the given context.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Engine renders the builtin template set, optionally shadowed by user
// templates from a directory. Templates are parsed once at construction.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the builtin templates and, when overrideDir is non-empty,
// re-parses any *.tmpl files found there on top of them. An override file
// replaces the builtin of the same name; builtins without an override stay
// available, so a theme only needs to ship the templates it changes.
func NewEngine(overrideDir string) (*Engine, error) {
	tpl, err := template.New("sitebuilder").ParseFS(builtinFS, "builtin/*.tmpl")
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryInternal, "parsing builtin templates")
	}

	if overrideDir != "" {
		if _, statErr := os.Stat(overrideDir); statErr != nil {
			return nil, siteerrors.Wrap(statErr, siteerrors.CategoryConfig, "template directory not readable").
				WithContext("path", overrideDir)
		}
		matches, globErr := os.ReadDir(overrideDir)
		if globErr != nil {
			return nil, siteerrors.Wrap(globErr, siteerrors.CategoryConfig, "reading template directory").
				WithContext("path", overrideDir)
		}
		hasOverrides := false
		for _, entry := range matches {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".tmpl") {
				hasOverrides = true
				break
			}
		}
		if hasOverrides {
			tpl, err = tpl.ParseFS(os.DirFS(overrideDir), "*.tmpl")
			if err != nil {
				return nil, siteerrors.Wrap(err, siteerrors.CategoryConfig, "parsing template overrides").
					WithContext("path", overrideDir)
			}
		}
	}

	return &Engine{templates: tpl}, nil
}

// Render executes the named template against data.
func (e *Engine) Render(name string, data any) (string, error) {
	if e.templates.Lookup(name) == nil {
		return "", siteerrors.New(siteerrors.CategoryRender, "unknown template").
			WithContext("template", name)
	}
	var sb strings.Builder
	if err := e.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", siteerrors.Wrap(err, siteerrors.CategoryRender, "executing template").
			WithContext("template", name)
	}
	return sb.String(), nil
}
