package version

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// TagHistory lists previously created version tags reachable from the
// current revision, in creation order (oldest first). It is read-only.
type TagHistory interface {
	TagsByCreation(ctx context.Context) ([]string, error)
}

// Tagger performs the one tag-creation side effect of a manual release:
// creating an annotated tag at the current revision and pushing it.
type Tagger interface {
	CreateAnnotatedTag(ctx context.Context, name, message string) error
	PushTag(ctx context.Context, name string) error
}

// Resolver derives the release version string from the trigger kind and tag
// history. It is the only component that writes tag history, and it does so
// append-only through the Tagger.
type Resolver struct {
	history TagHistory
	tagger  Tagger
	log     *slog.Logger
}

// NewResolver creates a Resolver over the given tag history and tagger.
func NewResolver(history TagHistory, tagger Tagger, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{history: history, tagger: tagger, log: log}
}

// Resolve derives the version for the given trigger event.
//
// For AutomaticCheck it returns the fixed snapshot sentinel without touching
// tag history. For ManualRelease it finds the latest tag in creation order
// (treating an empty history as v0.0.0), parses it, and increments the patch
// component. Returns ErrVersionParse if the latest tag is malformed.
//
// Resolve has no side effects; TagRelease performs the tag creation.
func (r *Resolver) Resolve(ctx context.Context, ev trigger.Event) (Version, error) {
	if ev.Kind == trigger.AutomaticCheck {
		return Snapshot(), nil
	}

	tags, err := r.history.TagsByCreation(ctx)
	if err != nil {
		return Version{}, fmt.Errorf("failed to read tag history: %w", err)
	}

	latest := Version{}
	if len(tags) > 0 {
		latest, err = Parse(tags[len(tags)-1])
		if err != nil {
			return Version{}, err
		}
	}

	next := latest.NextPatch()
	r.log.Info("resolved release version",
		"previous", latest.String(),
		"next", next.String(),
		"tags", len(tags))
	return next, nil
}

// LatestTag returns the most recently created version tag, or an empty
// string when the history is empty. Callers use it as the changelog anchor
// before TagRelease moves the head of the history.
func (r *Resolver) LatestTag(ctx context.Context) (string, error) {
	tags, err := r.history.TagsByCreation(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read tag history: %w", err)
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[len(tags)-1], nil
}

// TagRelease creates the annotated tag for the resolved version at the
// current revision and pushes it to the remote.
//
// This is a one-shot, non-idempotent operation. If the tag already exists
// remotely the push fails and the pipeline must abort before any build or
// publish work; no retry or renegotiation is attempted. Snapshot versions
// are rejected outright.
func (r *Resolver) TagRelease(ctx context.Context, v Version) error {
	if v.Snapshot {
		return fmt.Errorf("refusing to tag snapshot version %s", v)
	}

	name := v.TagName()
	if err := r.tagger.CreateAnnotatedTag(ctx, name, "Release "+name); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}

	if err := r.tagger.PushTag(ctx, name); err != nil {
		return fmt.Errorf("failed to push tag %s: %w", name, err)
	}

	r.log.Info("pushed release tag", "tag", name)
	return nil
}
