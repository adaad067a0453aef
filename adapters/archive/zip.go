// Package archive compresses the updated project dump for import.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"tcdump/internal"
)

// ZipFile compresses src into a new zip archive at dst holding a single
// deflated entry named after the base name of src. An existing dst is
// overwritten.
func ZipFile(src, dst string, logger *internal.Logger) error {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if _, err := os.Stat(dst); err == nil {
		logger.Warn("%s already exists and will be overwritten", dst)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(src)
	header.Method = zip.Deflate

	zw := zip.NewWriter(out)
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", header.Name, dst, err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("failed to compress %s: %w", src, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	logger.Info("%s successfully created", dst)
	return nil
}
