// Package output writes generated documents and copies static resources into
// the site output directory. Output paths are always relative to a single
// root; anything escaping the root is rejected before touching the disk.
package output

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

// Writer emits generated documents under a root directory. Generated files
// from earlier runs are overwritten, so repeated builds of the same content
// converge on the same tree.
type Writer struct {
	root string
}

// NewWriter prepares root (creating it if missing) and returns a Writer
// rooted there.
func NewWriter(root string) (*Writer, error) {
	if root == "" {
		return nil, siteerrors.New(siteerrors.CategoryConfig, "output directory is required")
	}
	clean := filepath.Clean(root)
	if err := os.MkdirAll(clean, 0o750); err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "creating output directory").
			WithContext("path", clean)
	}
	return &Writer{root: clean}, nil
}

// Root returns the prepared output directory.
func (w *Writer) Root() string {
	return w.root
}

// Write stores content at the relative path under the output root and returns
// the full path written.
func (w *Writer) Write(relativePath, content string) (string, error) {
	fullPath, err := w.resolve(relativePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "creating output subdirectory").
			WithContext("path", fullPath)
	}

	// #nosec G304 -- fullPath is validated to stay under the output root.
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		return "", siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "writing output file").
			WithContext("path", fullPath)
	}
	return fullPath, nil
}

// CopyResources mirrors the contents of srcDir into the output root. Files in
// the output directory that do not exist in srcDir are left alone, so copied
// resources coexist with generated documents. A missing srcDir is not an
// error; sites without static resources simply skip this step.
func (w *Writer) CopyResources(srcDir string) (int, error) {
	if srcDir == "" {
		return 0, nil
	}
	info, err := os.Stat(srcDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "reading resource directory").
			WithContext("path", srcDir)
	}
	if !info.IsDir() {
		return 0, siteerrors.New(siteerrors.CategoryConfig, "resource path is not a directory").
			WithContext("path", srcDir)
	}

	copied := 0
	walkErr := filepath.WalkDir(srcDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		if err := w.copyFile(path, rel); err != nil {
			return err
		}
		copied++
		return nil
	})
	if walkErr != nil {
		if se, ok := walkErr.(*siteerrors.SiteError); ok {
			return copied, se
		}
		return copied, siteerrors.Wrap(walkErr, siteerrors.CategoryFileSystem, "copying resources").
			WithContext("path", srcDir)
	}
	return copied, nil
}

func (w *Writer) copyFile(src, rel string) error {
	dst, err := w.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "creating resource subdirectory").
			WithContext("path", dst)
	}

	// #nosec G304 -- src comes from walking the configured resource directory.
	in, err := os.Open(src)
	if err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "opening resource").
			WithContext("path", src)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "creating resource copy").
			WithContext("path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, "copying resource").
			WithContext("path", dst)
	}
	return out.Close()
}

// resolve validates a relative path and maps it under the root.
func (w *Writer) resolve(relativePath string) (string, error) {
	if relativePath == "" {
		return "", siteerrors.New(siteerrors.CategoryFileSystem, "output path is required")
	}
	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", siteerrors.New(siteerrors.CategoryFileSystem, "output path escapes output directory").
			WithContext("path", relativePath)
	}
	fullPath := filepath.Join(w.root, cleanRel)
	rel, err := filepath.Rel(w.root, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", siteerrors.New(siteerrors.CategoryFileSystem, "output path escapes output directory").
			WithContext("path", relativePath)
	}
	return fullPath, nil
}
