// This file isolates the ORAS dependency behind a narrow interface so the
// publisher can be tested without a live registry.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// Registry abstracts the OCI registry operations the publisher needs:
// content-addressed pushes plus a final tag step.
type Registry interface {
	// PushBlob pushes a blob by digest and returns its descriptor.
	PushBlob(ctx context.Context, mediaType string, blob []byte) (ocispec.Descriptor, error)

	// PushManifest pushes a manifest by digest and returns its descriptor.
	PushManifest(ctx context.Context, mediaType string, manifest []byte) (ocispec.Descriptor, error)

	// Tag associates a previously pushed descriptor with a tag.
	Tag(ctx context.Context, desc ocispec.Descriptor, tag string) error
}

// RegistryOptions configures the ORAS-backed registry client.
type RegistryOptions struct {
	// Username and Token authenticate against the registry. The token is an
	// opaque bearer credential; it is never inspected. Empty credentials use
	// anonymous access.
	Username string
	Token    string

	// PlainHTTP enables HTTP instead of HTTPS, for local registries.
	PlainHTTP bool
}

// RegistryOption is a functional option for configuring the registry client.
type RegistryOption func(*RegistryOptions)

// WithStaticAuth configures static credentials for the registry.
func WithStaticAuth(username, token string) RegistryOption {
	return func(o *RegistryOptions) {
		o.Username = username
		o.Token = token
	}
}

// WithPlainHTTP enables HTTP registry connections. Only for local registries.
func WithPlainHTTP() RegistryOption {
	return func(o *RegistryOptions) {
		o.PlainHTTP = true
	}
}

// orasRegistry implements Registry using the ORAS library.
type orasRegistry struct {
	repo *remote.Repository
}

// NewORASRegistry creates a Registry for the given image repository
// (e.g. "ghcr.io/acme/forge-release").
func NewORASRegistry(repository string, opts ...RegistryOption) (Registry, error) {
	options := &RegistryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	repo, err := remote.NewRepository(repository)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository client: %w", err)
	}
	repo.PlainHTTP = options.PlainHTTP

	client := &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
	}
	if options.Token != "" {
		host := registryHost(repository)
		client.Credential = auth.StaticCredential(host, auth.Credential{
			Username: options.Username,
			Password: options.Token,
		})
	}
	repo.Client = client

	return &orasRegistry{repo: repo}, nil
}

// registryHost extracts the registry host from a repository reference.
func registryHost(repository string) string {
	if i := strings.Index(repository, "/"); i > 0 {
		return repository[:i]
	}
	return repository
}

// PushBlob implements Registry.
func (r *orasRegistry) PushBlob(ctx context.Context, mediaType string, blob []byte) (ocispec.Descriptor, error) {
	desc := content.NewDescriptorFromBytes(mediaType, blob)
	err := r.repo.Blobs().Push(ctx, desc, bytes.NewReader(blob))
	if err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return ocispec.Descriptor{}, fmt.Errorf("failed to push blob: %w", err)
	}
	return desc, nil
}

// PushManifest implements Registry.
func (r *orasRegistry) PushManifest(ctx context.Context, mediaType string, manifest []byte) (ocispec.Descriptor, error) {
	desc := content.NewDescriptorFromBytes(mediaType, manifest)
	err := r.repo.Manifests().Push(ctx, desc, bytes.NewReader(manifest))
	if err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return ocispec.Descriptor{}, fmt.Errorf("failed to push manifest: %w", err)
	}
	return desc, nil
}

// Tag implements Registry.
func (r *orasRegistry) Tag(ctx context.Context, desc ocispec.Descriptor, tag string) error {
	if err := r.repo.Tag(ctx, desc, tag); err != nil {
		return fmt.Errorf("failed to tag %s: %w", tag, err)
	}
	return nil
}
