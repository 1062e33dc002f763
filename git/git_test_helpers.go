package git

import (
	"context"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo is a helper struct bundling a repository under test.
type testRepo struct {
	repo *Repo
	ctx  context.Context

	// clock drives deterministic commit timestamps.
	clock time.Time
}

// setupMemoryRepo creates a new in-memory test repository.
func setupMemoryRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	repo, err := InitMemory(ctx, Options{})
	require.NoError(t, err, "failed to initialize test repository")

	return &testRepo{
		repo:  repo,
		ctx:   ctx,
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// setupDiskRepo creates a new test repository under a temporary directory.
func setupDiskRepo(t *testing.T, path string) *testRepo {
	t.Helper()

	ctx := context.Background()
	repo, err := Init(ctx, Options{Path: path})
	require.NoError(t, err, "failed to initialize test repository")

	return &testRepo{
		repo:  repo,
		ctx:   ctx,
		clock: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit writes a file and commits it, advancing the test clock by one hour
// so timestamps are strictly ordered.
func (tr *testRepo) commit(t *testing.T, filename, content, message string) plumbing.Hash {
	t.Helper()

	fs := tr.repo.worktree.Filesystem
	f, err := fs.Create(filename)
	require.NoError(t, err, "failed to create file")
	_, err = f.Write([]byte(content))
	require.NoError(t, err, "failed to write file")
	require.NoError(t, f.Close(), "failed to close file")

	_, err = tr.repo.worktree.Add(filename)
	require.NoError(t, err, "failed to add file")

	tr.clock = tr.clock.Add(time.Hour)
	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: tr.clock}
	hash, err := tr.repo.worktree.Commit(message, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(t, err, "failed to commit")

	return hash
}

// lightweightTag creates a lightweight tag at the given commit.
func (tr *testRepo) lightweightTag(t *testing.T, name string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), hash)
	require.NoError(t, tr.repo.repo.Storer.SetReference(ref), "failed to create lightweight tag")
}

// addRemote wires a named remote pointing at a local path.
func (tr *testRepo) addRemote(t *testing.T, name, url string) {
	t.Helper()

	_, err := tr.repo.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	require.NoError(t, err, "failed to create remote")
}
