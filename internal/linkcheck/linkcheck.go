// Package linkcheck verifies internal links in a generated site: every href
// and src pointing inside the output directory must resolve to a file the run
// actually wrote. External links are out of scope.
package linkcheck

import (
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// Issue is one broken internal link.
type Issue struct {
	Document string // relative path of the document containing the link
	Target   string // the link as written
}

// Run checks every HTML document under outputDir and returns the broken
// internal links found. A non-nil error means the check itself failed, not
// that links are broken.
func Run(outputDir string) ([]Issue, error) {
	var issues []Issue

	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		rel, relErr := filepath.Rel(outputDir, p)
		if relErr != nil {
			return relErr
		}

		file, openErr := os.Open(filepath.Clean(p))
		if openErr != nil {
			return openErr
		}
		docIssues, parseErr := checkDocument(file, outputDir, filepath.ToSlash(rel))
		_ = file.Close()
		if parseErr != nil {
			return parseErr
		}
		issues = append(issues, docIssues...)
		return nil
	})
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "walking output directory").
			WithContext("path", outputDir)
	}
	return issues, nil
}

// checkDocument extracts internal targets from one document and verifies each
// resolves to an existing file.
func checkDocument(r io.Reader, outputDir, docRel string) ([]Issue, error) {
	targets, err := extractTargets(r)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryRender, "parsing generated document").
			WithContext("path", docRel)
	}

	var issues []Issue
	checked := sets.New[string]()
	for _, target := range targets {
		resolved, internal := resolveInternal(docRel, target)
		if !internal || checked.Has(resolved) {
			continue
		}
		checked.Add(resolved)
		full := filepath.Join(outputDir, filepath.FromSlash(resolved))
		if _, statErr := os.Stat(full); statErr != nil {
			issues = append(issues, Issue{Document: docRel, Target: target})
		}
	}
	return issues, nil
}

// extractTargets collects href and src values from anchor, image, link and
// script elements.
func extractTargets(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var targets []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if v := attr(n, "href"); v != "" {
					targets = append(targets, v)
				}
			case "img", "script":
				if v := attr(n, "src"); v != "" {
					targets = append(targets, v)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return targets, nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// resolveInternal decides whether target is an internal link and resolves it
// relative to the containing document. Absolute URLs, mailto links and pure
// fragments are external to this check.
func resolveInternal(docRel, target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	p := u.Path
	if strings.HasPrefix(p, "/") {
		return strings.TrimPrefix(p, "/"), true
	}
	return path.Join(path.Dir(docRel), p), true
}
