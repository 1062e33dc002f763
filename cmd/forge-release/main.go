// forge-release is the release orchestrator CLI. It runs the job pipeline
// that derives a version from git tag history, fans a build across the
// target matrix, publishes the multi-arch container image, and produces a
// tagged release with notes and checksums.
package main

import "os"

// version is embedded at build time via -ldflags.
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
