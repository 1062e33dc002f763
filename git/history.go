// This file contains history operations used for release notes generation.
package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitSubjectsSince returns the subject lines of commits reachable from
// HEAD, newest first, stopping before the commit the given tag points at.
// An empty sinceTag walks the full history. max bounds the number of
// subjects returned; zero means no bound.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) CommitSubjectsSince(ctx context.Context, sinceTag string, max int) ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}

	stop := plumbing.ZeroHash
	if sinceTag != "" {
		stop, err = r.tagCommitHash(sinceTag)
		if err != nil {
			return nil, err
		}
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, WrapError(err, "failed to open commit log")
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if sinceTag != "" && c.Hash == stop {
			return storer.ErrStop
		}

		subject := strings.SplitN(strings.TrimSpace(c.Message), "\n", 2)[0]
		subjects = append(subjects, subject)

		if max > 0 && len(subjects) >= max {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate commits")
	}

	return subjects, nil
}

// tagCommitHash resolves a tag name to the commit hash it points at,
// following annotated tag objects to their target.
func (r *Repo) tagCommitHash(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return plumbing.ZeroHash, WrapErrorf(ErrTagMissing, "tag %s", name)
	}

	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Target, nil
	}
	return ref.Hash(), nil
}
