package source

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitPlumbing "github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"
)

// ErrNotBootstrapped is returned by operations that need a repository
// before Bootstrap has succeeded.
var ErrNotBootstrapped = errors.New("repository must be bootstrapped first")

// New creates a new instance of RepoMngr
func New(l hclog.Logger, url, path string) *RepoMngr {
	x := RepoMngr{
		l:    l.Named("git"),
		Url:  url,
		Path: path,
	}
	return &x
}

// Bootstrap opens the repository at Path, cloning it from Url if
// nothing is there yet.  It reports whether a clone took place.
func (r *RepoMngr) Bootstrap() (bool, error) {
	if r.Path == "" {
		return false, errors.New("path must be set to bootstrap")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	repo, err := git.PlainOpen(r.Path)
	if err == nil {
		r.l.Debug("Opened existing repository", "path", r.Path)
		r.repo = repo
		return false, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return false, err
	}

	if r.Url == "" {
		return false, errors.New("url must be set to clone")
	}
	r.l.Info("Cloning repository", "path", r.Path, "url", r.Url)
	repo, err = git.PlainClone(r.Path, false, &git.CloneOptions{URL: r.Url})
	if err != nil {
		r.l.Error("Error cloning repository", "url", r.Url, "error", err)
		return false, err
	}
	r.repo = repo
	return true, nil
}

// At returns the current HEAD hash.
func (r *RepoMngr) At() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repo == nil {
		return "", ErrNotBootstrapped
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

// Fetch origin.  Being up to date is not an error.
func (r *RepoMngr) Fetch() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repo == nil {
		return ErrNotBootstrapped
	}

	r.l.Debug("Fetching origin", "path", r.Path)
	err := r.repo.Fetch(&git.FetchOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// Checkout moves the worktree to rev, which may be a hash, a tag or a
// branch name, and returns the files that changed.
func (r *RepoMngr) Checkout(rev string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repo == nil {
		return nil, ErrNotBootstrapped
	}

	oldHead, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	oldCommit, err := r.repo.CommitObject(oldHead.Hash())
	if err != nil {
		return nil, err
	}

	newHash, err := r.repo.ResolveRevision(gitPlumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("unknown revision %q: %w", rev, err)
	}
	r.l.Debug("Checking out", "path", r.Path, "old", oldHead.Hash().String(), "new", newHash.String())

	if oldHead.Hash() == *newHash {
		return []string{}, nil
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *newHash, Force: true}); err != nil {
		return nil, err
	}

	newCommit, err := r.repo.CommitObject(*newHash)
	if err != nil {
		return nil, err
	}
	diff, err := oldCommit.Patch(newCommit)
	if err != nil {
		return nil, err
	}
	stats := diff.Stats()
	changed := make([]string, len(stats))
	for i := range stats {
		changed[i] = stats[i].Name
	}
	r.l.Info("Checked out UI revision", "rev", newHash.String(), "changed", len(changed))

	return changed, nil
}

// Sync brings Path up to date: clone or fetch, then check out rev if
// one is given.
func (r *RepoMngr) Sync(rev string) error {
	cloned, err := r.Bootstrap()
	if err != nil {
		return err
	}
	if !cloned {
		if err := r.Fetch(); err != nil {
			return err
		}
	}
	if rev == "" {
		return nil
	}
	_, err = r.Checkout(rev)
	return err
}
