package git

import (
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnnotatedTag(t *testing.T) {
	t.Run("creates tag at HEAD with message", func(t *testing.T) {
		tr := setupMemoryRepo(t)
		tr.commit(t, "main.go", "package main", "initial commit")

		err := tr.repo.CreateAnnotatedTag(tr.ctx, "v1.0.0", "release v1.0.0")
		require.NoError(t, err)

		tags, err := tr.repo.TagsByCreation(tr.ctx)
		require.NoError(t, err)
		assert.Contains(t, tags, "v1.0.0")

		// Verify it's an annotated tag carrying the message.
		ref, err := tr.repo.repo.Reference(plumbing.NewTagReferenceName("v1.0.0"), true)
		require.NoError(t, err)
		tagObj, err := tr.repo.repo.TagObject(ref.Hash())
		require.NoError(t, err)
		assert.Equal(t, "release v1.0.0", strings.TrimSpace(tagObj.Message))
	})

	t.Run("duplicate tag fails", func(t *testing.T) {
		tr := setupMemoryRepo(t)
		tr.commit(t, "main.go", "package main", "initial commit")

		require.NoError(t, tr.repo.CreateAnnotatedTag(tr.ctx, "v1.0.0", "release"))
		err := tr.repo.CreateAnnotatedTag(tr.ctx, "v1.0.0", "release again")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTagExists)
	})

	t.Run("empty name fails", func(t *testing.T) {
		tr := setupMemoryRepo(t)
		tr.commit(t, "main.go", "package main", "initial commit")

		err := tr.repo.CreateAnnotatedTag(tr.ctx, "", "release")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRef)
	})
}

func TestTagsByCreation(t *testing.T) {
	tr := setupMemoryRepo(t)

	// Tag names chosen so creation order differs from alphabetical order.
	first := tr.commit(t, "a.go", "package main", "first")
	tr.lightweightTag(t, "v1.9.0", first)

	second := tr.commit(t, "b.go", "package main", "second")
	tr.lightweightTag(t, "v1.10.0", second)

	third := tr.commit(t, "c.go", "package main", "third")
	tr.lightweightTag(t, "v1.11.0", third)

	tags, err := tr.repo.TagsByCreation(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.9.0", "v1.10.0", "v1.11.0"}, tags)
}

func TestTagsByCreationEmpty(t *testing.T) {
	tr := setupMemoryRepo(t)
	tr.commit(t, "a.go", "package main", "first")

	tags, err := tr.repo.TagsByCreation(tr.ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteTag(t *testing.T) {
	tr := setupMemoryRepo(t)
	tr.commit(t, "a.go", "package main", "first")

	require.NoError(t, tr.repo.CreateAnnotatedTag(tr.ctx, "v1.0.0", "release"))
	require.NoError(t, tr.repo.DeleteTag(tr.ctx, "v1.0.0"))

	tags, err := tr.repo.TagsByCreation(tr.ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	err = tr.repo.DeleteTag(tr.ctx, "v1.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagMissing)
}

func TestPushTag(t *testing.T) {
	remoteDir := t.TempDir()
	_, err := gogit.PlainInit(remoteDir, true)
	require.NoError(t, err, "failed to initialize bare remote")

	tr := setupDiskRepo(t, t.TempDir())
	tr.commit(t, "main.go", "package main", "initial commit")
	tr.addRemote(t, DefaultRemoteName, remoteDir)

	require.NoError(t, tr.repo.CreateAnnotatedTag(tr.ctx, "v0.1.0", "release v0.1.0"))

	t.Run("first push succeeds", func(t *testing.T) {
		require.NoError(t, tr.repo.PushTag(tr.ctx, "v0.1.0"))

		remote, err := gogit.PlainOpen(remoteDir)
		require.NoError(t, err)
		_, err = remote.Reference(plumbing.NewTagReferenceName("v0.1.0"), true)
		assert.NoError(t, err, "remote should have the tag")
	})

	t.Run("pushing an existing tag conflicts", func(t *testing.T) {
		err := tr.repo.PushTag(tr.ctx, "v0.1.0")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTagExists)
	})

	t.Run("pushing a diverged tag conflicts", func(t *testing.T) {
		require.NoError(t, tr.repo.DeleteTag(tr.ctx, "v0.1.0"))
		tr.commit(t, "other.go", "package main", "second commit")
		require.NoError(t, tr.repo.CreateAnnotatedTag(tr.ctx, "v0.1.0", "rebuilt tag"))

		err := tr.repo.PushTag(tr.ctx, "v0.1.0")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTagExists)
	})

	t.Run("missing remote fails", func(t *testing.T) {
		lone := setupDiskRepo(t, t.TempDir())
		lone.commit(t, "main.go", "package main", "initial commit")
		require.NoError(t, lone.repo.CreateAnnotatedTag(lone.ctx, "v0.1.0", "release"))

		err := lone.repo.PushTag(lone.ctx, "v0.1.0")
		require.Error(t, err)
	})
}
