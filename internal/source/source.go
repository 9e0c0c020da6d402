// Package source resolves where content definitions are read from: a local
// path, or a git repository cloned into a workspace before each run.
package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/retry"
	"git.home.luguber.info/inful/sitebuilder/internal/siteerrors"
)

const defaultWorkspace = ".sitebuilder-workspace"

// Manager materializes content sources. Local paths pass through untouched;
// git sources are cloned fresh into the workspace on every resolve so the run
// always sees the branch tip.
type Manager struct {
	workspaceDir string
	logger       *slog.Logger
	policy       retry.Policy
}

// NewManager creates a source manager rooted at workspaceDir (a default
// sibling directory when empty).
func NewManager(workspaceDir string, logger *slog.Logger) *Manager {
	if workspaceDir == "" {
		workspaceDir = defaultWorkspace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{workspaceDir: workspaceDir, logger: logger, policy: retry.DefaultPolicy()}
}

// Resolve returns the directory or file to load content definitions from.
func (m *Manager) Resolve(ctx context.Context, cfg config.ContentConfig) (string, error) {
	if cfg.Git == nil {
		return cfg.Path, nil
	}
	return m.clone(ctx, cfg.Git)
}

func (m *Manager) clone(ctx context.Context, src *config.GitSourceConfig) (string, error) {
	repoPath := filepath.Join(m.workspaceDir, "content")

	m.logger.Debug("cloning content repository",
		logfields.URL(src.URL),
		slog.String("branch", src.Branch),
		logfields.Path(repoPath))

	opts := &git.CloneOptions{
		URL:   src.URL,
		Depth: 1,
	}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	}

	// Clones go over the network; transient failures get retried with backoff.
	var repository *git.Repository
	err := m.policy.Do(ctx, func() error {
		if cleanErr := os.RemoveAll(repoPath); cleanErr != nil {
			return cleanErr
		}
		var cloneErr error
		repository, cloneErr = git.PlainCloneContext(ctx, repoPath, false, opts)
		return cloneErr
	})
	if err != nil {
		return "", siteerrors.Wrap(err, siteerrors.CategorySource, "cloning content repository").
			WithContext("url", src.URL)
	}

	if ref, headErr := repository.Head(); headErr == nil {
		m.logger.Info("content repository cloned",
			logfields.URL(src.URL),
			slog.String("commit", ref.Hash().String()[:8]),
			logfields.Path(repoPath))
	}

	return filepath.Join(repoPath, src.Subdir), nil
}
