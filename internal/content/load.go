package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

// Load reads content definitions from path. A file is parsed as one
// Definitions document; a directory is walked for *.yaml / *.yml files
// (sorted for determinism) whose documents are merged in order.
func Load(path string) (Definitions, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Definitions{}, siteerrors.Wrap(err, siteerrors.CategorySource, "content path not accessible")
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return Definitions{}, siteerrors.Wrap(err, siteerrors.CategorySource, "walk content directory")
	}
	sort.Strings(files)

	var merged Definitions
	for _, f := range files {
		defs, err := loadFile(f)
		if err != nil {
			return Definitions{}, err
		}
		merged.Pages = append(merged.Pages, defs.Pages...)
		merged.Articles = append(merged.Articles, defs.Articles...)
		merged.Datasets = append(merged.Datasets, defs.Datasets...)
	}
	return merged, nil
}

func loadFile(path string) (Definitions, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied content path
	if err != nil {
		return Definitions{}, siteerrors.Wrap(err, siteerrors.CategorySource, fmt.Sprintf("read content file %s", path))
	}
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return Definitions{}, siteerrors.Wrap(err, siteerrors.CategorySource, fmt.Sprintf("parse content file %s", path))
	}
	return defs, nil
}
