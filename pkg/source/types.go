package source

import (
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-hclog"
)

// A RepoMngr keeps a checkout of a UI bundle repository in sync with
// its origin.
type RepoMngr struct {
	l    hclog.Logger
	Path string
	Url  string

	mu   sync.Mutex
	repo *git.Repository
}
