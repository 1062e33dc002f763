package build

import (
	"sort"
	"strings"
)

// Manifest is the aggregated checksum manifest: one line per artifact,
// "<sha256hex>  <archiveFilename>", sorted by archive filename so releases
// are reproducible regardless of target completion order.
type Manifest struct {
	Lines []string
}

// String renders the manifest with a trailing newline, or an empty string
// for an empty manifest.
func (m Manifest) String() string {
	if len(m.Lines) == 0 {
		return ""
	}
	return strings.Join(m.Lines, "\n") + "\n"
}

// Collect merges the per-target build results into a publishable set:
// the successful artifacts sorted by archive name, their combined checksum
// manifest, and the isolated failures.
//
// Collect must only run after every target has reached a terminal outcome;
// the expander's join barrier guarantees this. Each result set is consumed
// once.
func Collect(results []Result) (artifacts []Artifact, manifest Manifest, failures []Result) {
	for _, r := range results {
		if r.Failed() {
			failures = append(failures, r)
			continue
		}
		if r.Artifact != nil {
			artifacts = append(artifacts, *r.Artifact)
		}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})

	manifest.Lines = make([]string, len(artifacts))
	for i, a := range artifacts {
		manifest.Lines[i] = a.ManifestLine()
	}

	return artifacts, manifest, failures
}
