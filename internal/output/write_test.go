// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	_ "image/png"
)

func TestWriteImage_Formats(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"png", "out.png"},
		{"tiff", "out.tiff"},
		{"tif", "out.tif"},
		{"bmp", "out.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := colorSquare(40, 60)
			defer m.Close()

			path := filepath.Join(t.TempDir(), tt.file)
			if err := WriteImage(m, path); err != nil {
				t.Fatalf("WriteImage: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("opening output: %v", err)
			}
			defer f.Close()

			cfg, _, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatalf("decoding output: %v", err)
			}
			if cfg.Width != 60 || cfg.Height != 40 {
				t.Errorf("decoded %dx%d, want 60x40", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestWriteImage_UnsupportedExtension(t *testing.T) {
	m := colorSquare(10, 10)
	defer m.Close()

	err := WriteImage(m, filepath.Join(t.TempDir(), "out.gif"))
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestWriteImage_NoTempFileLeftBehind(t *testing.T) {
	m := colorSquare(10, 10)
	defer m.Close()

	dir := t.TempDir()
	if err := WriteImage(m, filepath.Join(dir, "out.png")); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only out.png", names)
	}
}
