package build

// Artifact is the successful outcome of one build target: a packaged
// archive and its content checksum.
type Artifact struct {
	// Name is the archive file name, e.g. "forge-release-v1.2.4-linux-amd64.tar.gz".
	Name string

	// Path is the filesystem location of the archive.
	Path string

	// Checksum is the lowercase hex SHA-256 of the archive content.
	Checksum string
}

// ManifestLine renders the artifact's checksum manifest entry:
// "<sha256hex>  <archiveFilename>".
func (a Artifact) ManifestLine() string {
	return a.Checksum + "  " + a.Name
}

// Result is the outcome of one build target: either an Artifact or a
// failure cause. Results are created by the expander and consumed once by
// the collector.
type Result struct {
	Target   Target
	Artifact *Artifact
	Err      error
}

// Failed reports whether the target produced a failure instead of an artifact.
func (r Result) Failed() bool {
	return r.Err != nil
}
