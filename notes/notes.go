// Package notes renders the human-readable release description from the
// resolved version, release kind, artifact set, and checksum manifest.
// Rendering is a pure function of its inputs; it performs no I/O.
package notes

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// Input collects everything the renderer needs.
type Input struct {
	// Version is the resolved release version, e.g. "v1.2.4".
	Version string

	// Kind is the release kind the notes banner reflects.
	Kind trigger.ReleaseKind

	// BinaryName is the released executable's base name.
	BinaryName string

	// Toolchain is the toolchain version string recorded for reproducibility.
	Toolchain string

	// Targets is the supported platform matrix.
	Targets []build.Target

	// Artifacts are the successfully built archives.
	Artifacts []build.Artifact

	// PullRefs are the image references from the publish plan's tag set.
	PullRefs []string

	// Manifest is the rendered checksum manifest.
	Manifest string

	// Changes are commit subjects since the previous release, newest first.
	Changes []string
}

// Prerelease reports whether the notes describe a prerelease.
func (in Input) Prerelease() bool {
	return in.Kind != trigger.Stable
}

const notesTemplate = `## {{.BinaryName}} {{.Version}}

{{if .Prerelease -}}
**This is a beta prerelease.** It may contain incomplete or unstable changes.
{{- else -}}
**Stable release.**
{{- end}}
{{if .Toolchain}}
Built with toolchain {{.Toolchain}}.
{{end}}
### Supported platforms

| OS | Architecture |
|----|--------------|
{{- range .Targets}}
| {{.OS}} | {{.Arch}} |
{{- end}}
{{if .PullRefs}}
### Container image

` + "```" + `
{{- range .PullRefs}}
docker pull {{.}}
{{- end}}
` + "```" + `
{{end}}
{{- if .Changes}}
### Changes
{{range .Changes}}
- {{.}}
{{- end}}
{{end}}
{{- if .Manifest}}
### Checksums

` + "```" + `
{{.Manifest}}` + "```" + `
{{end}}`

var tmpl = template.Must(template.New("notes").Parse(notesTemplate))

// Render produces the release description for the given input.
func Render(in Input) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, in); err != nil {
		return "", fmt.Errorf("failed to render release notes: %w", err)
	}
	return sb.String(), nil
}
