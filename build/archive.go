package build

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// createArchive packages the executable at binPath into a gzipped tarball at
// archivePath. The entry inside the archive keeps the platform-specific
// executable name and an executable mode.
func createArchive(archivePath, binPath, entryName string) error {
	bin, err := os.Open(binPath)
	if err != nil {
		return fmt.Errorf("failed to open binary: %w", err)
	}
	defer bin.Close()

	info, err := bin.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat binary: %w", err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	hdr := &tar.Header{
		Name:    entryName,
		Mode:    0o755,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write archive header: %w", err)
	}
	if _, err := io.Copy(tw, bin); err != nil {
		return fmt.Errorf("failed to write archive content: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize compression: %w", err)
	}
	return out.Close()
}

// checksumFile computes the lowercase hex SHA-256 of the file at path.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
