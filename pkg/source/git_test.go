package source

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitFile writes name into the worktree of repo at dir and commits
// it, returning the new hash.
func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	h, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return h.String()
}

func TestCheckoutExisting(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	first := commitFile(t, repo, dir, "index.html", "v1")
	second := commitFile(t, repo, dir, "index.html", "v2")

	r := New(hclog.NewNullLogger(), "", dir)
	cloned, err := r.Bootstrap()
	require.NoError(t, err)
	assert.False(t, cloned)

	at, err := r.At()
	require.NoError(t, err)
	assert.Equal(t, second, at)

	changed, err := r.Checkout(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, changed)

	b, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))

	changed, err = r.Checkout(first)
	require.NoError(t, err)
	assert.Empty(t, changed)

	_, err = r.Checkout("does-not-exist")
	assert.Error(t, err)
}

func TestNotBootstrapped(t *testing.T) {
	r := New(hclog.NewNullLogger(), "", t.TempDir())
	_, err := r.At()
	assert.ErrorIs(t, err, ErrNotBootstrapped)
	assert.ErrorIs(t, r.Fetch(), ErrNotBootstrapped)
	_, err = r.Checkout("HEAD")
	assert.ErrorIs(t, err, ErrNotBootstrapped)

	_, err = r.Bootstrap()
	assert.Error(t, err, "no repository and no url")
}

func TestSyncClone(t *testing.T) {
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack is required for local clones")
	}

	origin := t.TempDir()
	repo, err := git.PlainInit(origin, false)
	require.NoError(t, err)
	first := commitFile(t, repo, origin, "app.js", "one")
	commitFile(t, repo, origin, "app.js", "two")

	dest := filepath.Join(t.TempDir(), "gui")
	r := New(hclog.NewNullLogger(), origin, dest)
	require.NoError(t, r.Sync(""))

	b, err := os.ReadFile(filepath.Join(dest, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	// A second manager finds the checkout and fetches instead.
	r = New(hclog.NewNullLogger(), origin, dest)
	require.NoError(t, r.Sync(first))
	b, err = os.ReadFile(filepath.Join(dest, "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
}
