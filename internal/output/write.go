// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// WriteImage encodes m to path, choosing the encoder by file extension:
// .png, .tif/.tiff (LZW), or .bmp. The image is written to a temporary
// file in the destination directory and renamed on success, so a
// partially written file never shadows a finished one.
func WriteImage(m gocv.Mat, path string) error {
	img, err := m.ToImage()
	if err != nil {
		return fmt.Errorf("converting image for %s: %w", filepath.Base(path), err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".scoresplit-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	var encodeErr error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encodeErr = png.Encode(tmpFile, img)
	case ".tif", ".tiff":
		encodeErr = tiff.Encode(tmpFile, img, &tiff.Options{Compression: tiff.LZW})
	case ".bmp":
		encodeErr = bmp.Encode(tmpFile, img)
	default:
		encodeErr = fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}

	closeErr := tmpFile.Close()
	if encodeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), encodeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
