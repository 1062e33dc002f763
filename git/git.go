// Package git provides a high-level Go wrapper for go-git operations.
// It exposes the task-oriented operations the release pipeline consumes:
// listing version tags by creation order, creating annotated tags, pushing
// a single tag to the remote, and walking commit history for release notes.
//
// The wrapper never mutates tag history except through the one tag-creation
// side effect; everything else is read-only.
package git

import (
	"context"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	// DefaultRemoteName is the default remote name used for push operations.
	DefaultRemoteName = "origin"

	// DefaultTaggerName is the tagger identity recorded on annotated tags
	// when none is configured.
	DefaultTaggerName = "forge-release"

	// DefaultTaggerEmail is the tagger email recorded on annotated tags
	// when none is configured.
	DefaultTaggerEmail = "release@catalyst-forge.io"
)

// Options configures repository access and push authentication.
type Options struct {
	// Path is the filesystem path of the repository worktree.
	Path string

	// RemoteName is the remote used for push operations.
	// Defaults to DefaultRemoteName.
	RemoteName string

	// Token is an opaque bearer token used to authenticate pushes over HTTP.
	// The wrapper never inspects it. If empty, pushes are unauthenticated,
	// which is only valid for local-path remotes.
	Token string

	// TaggerName and TaggerEmail identify the tagger on annotated tags.
	TaggerName  string
	TaggerEmail string
}

// normalize applies defaults to unset options.
func (o *Options) normalize() {
	if o.RemoteName == "" {
		o.RemoteName = DefaultRemoteName
	}
	if o.TaggerName == "" {
		o.TaggerName = DefaultTaggerName
	}
	if o.TaggerEmail == "" {
		o.TaggerEmail = DefaultTaggerEmail
	}
}

// Repo wraps a go-git repository with release-oriented operations.
type Repo struct {
	repo     *gogit.Repository
	worktree *gogit.Worktree
	options  Options
}

// Open opens an existing repository at opts.Path.
func Open(ctx context.Context, opts Options) (*Repo, error) {
	opts.normalize()

	repo, err := gogit.PlainOpen(opts.Path)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, worktree: worktree, options: opts}, nil
}

// Init creates a new repository at opts.Path with a worktree.
func Init(ctx context.Context, opts Options) (*Repo, error) {
	opts.normalize()

	repo, err := gogit.PlainInit(opts.Path, false)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, worktree: worktree, options: opts}, nil
}

// InitMemory creates a new repository backed entirely by memory.
// Intended for tests; no state touches the local filesystem.
func InitMemory(ctx context.Context, opts Options) (*Repo, error) {
	opts.normalize()

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		return nil, WrapError(err, "failed to initialize in-memory repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, worktree: worktree, options: opts}, nil
}

// authMethod returns the transport auth for push operations, or nil when
// no token is configured.
func (r *Repo) authMethod() transport.AuthMethod {
	if r.options.Token == "" {
		return nil
	}
	// Bearer tokens go over HTTP basic auth; the username is ignored by
	// token-accepting remotes but must be non-empty.
	return &githttp.BasicAuth{
		Username: "forge-release",
		Password: r.options.Token,
	}
}
