// This file contains tag-related operations: creation-ordered listing,
// annotated tag creation, and single-tag pushes.
package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Tag describes one existing tag and when it was created.
// For annotated tags the creation time is the tagger timestamp; for
// lightweight tags it is the committer timestamp of the tagged commit.
type Tag struct {
	Name string
	When time.Time
}

// TagsByCreation returns the names of all tags sorted by creation time,
// oldest first. Ties are broken alphabetically so the ordering is stable.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) TagsByCreation(ctx context.Context) ([]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, WrapError(err, "failed to get tag references")
	}

	var tags []Tag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		when, whenErr := r.tagCreationTime(ref)
		if whenErr != nil {
			return whenErr
		}
		tags = append(tags, Tag{Name: ref.Name().Short(), When: when})
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate tag references")
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].When.Equal(tags[j].When) {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].When.Before(tags[j].When)
	})

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}

// tagCreationTime resolves the creation timestamp for a tag reference.
func (r *Repo) tagCreationTime(ref *plumbing.Reference) (time.Time, error) {
	// Annotated tags point at a tag object carrying the tagger timestamp.
	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Tagger.When, nil
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return time.Time{}, WrapErrorf(ErrResolveFailed, "cannot resolve tag %s", ref.Name().Short())
	}
	return commit.Committer.When, nil
}

// CreateAnnotatedTag creates an annotated tag named name at HEAD.
// Returns ErrTagExists if the tag is already present locally.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) CreateAnnotatedTag(ctx context.Context, name, message string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	head, err := r.repo.Head()
	if err != nil {
		return WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}

	tagRefName := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRefName, true); err == nil {
		return WrapErrorf(ErrTagExists, "tag %s", name)
	}

	opts := &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  r.options.TaggerName,
			Email: r.options.TaggerEmail,
			When:  time.Now(),
		},
		Message: message,
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return WrapError(err, "failed to create annotated tag")
	}

	return nil
}

// DeleteTag deletes the specified local tag.
// Returns ErrTagMissing if the tag does not exist. Intended for operator
// cleanup after a failed release run; the pipeline itself never retries.
func (r *Repo) DeleteTag(ctx context.Context, name string) error {
	tagRefName := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRefName, true); err != nil {
		return WrapErrorf(ErrTagMissing, "tag %s", name)
	}

	if err := r.repo.DeleteTag(name); err != nil {
		return WrapError(err, "failed to delete tag")
	}
	return nil
}

// PushTag pushes the single tag name to the configured remote.
//
// This is a one-shot, non-idempotent operation: if the tag is already
// present on the remote the push fails with ErrTagExists and the caller is
// expected to abort. No retry or renegotiation is attempted.
//
// Context timeout/cancellation is honored during the push.
func (r *Repo) PushTag(ctx context.Context, name string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
	pushOpts := &gogit.PushOptions{
		RemoteName: r.options.RemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       r.authMethod(),
	}

	err := r.repo.PushContext(ctx, pushOpts)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return WrapError(ErrResolveFailed, "remote not found")
		}
		// The remote already carrying this tag is a conflict either way:
		// up-to-date means the identical tag exists, non-fast-forward means
		// a different object holds the name.
		if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
			return WrapErrorf(ErrTagExists, "tag %s already on remote", name)
		}
		if errors.Is(err, gogit.ErrNonFastForwardUpdate) {
			return WrapErrorf(ErrTagExists, "tag %s already on remote", name)
		}
		return WrapError(err, "failed to push tag")
	}

	return nil
}
