// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// Manifest is the per-document extraction record written next to the
// emitted images.
type Manifest struct {
	Document    string         `yaml:"document"`
	Path        string         `yaml:"path"`
	Scale       float64        `yaml:"scale"`
	Pages       []ManifestPage `yaml:"pages"`
	Emitted     int            `yaml:"emitted"`
	Failed      int            `yaml:"failed"`
	ExtractedAt time.Time      `yaml:"extracted_at"`
}

// ManifestPage records the strategy and files of one page.
type ManifestPage struct {
	Page     int            `yaml:"page"`
	Strategy types.Strategy `yaml:"strategy"`
	Files    []string       `yaml:"files,omitempty"`
	Error    string         `yaml:"error,omitempty"`
}

// writeManifest writes cfg.OutDir/metadata/<docID>.yaml summarizing the
// run. Manifest failures never undo emitted images; the caller reports
// them as warnings.
func writeManifest(docPath string, cfg types.Config, result DocumentResult) error {
	m := Manifest{
		Document:    result.DocID,
		Path:        docPath,
		Scale:       cfg.Scale,
		Emitted:     result.Emitted,
		Failed:      result.Failed,
		ExtractedAt: time.Now().UTC(),
	}
	for _, pr := range result.Pages {
		mp := ManifestPage{Page: pr.Page, Strategy: pr.Strategy}
		for _, ex := range pr.Exercises {
			mp.Files = append(mp.Files, ex.File)
		}
		if pr.Err != nil {
			mp.Error = pr.Err.Error()
		}
		m.Pages = append(m.Pages, mp)
	}

	dir := filepath.Join(cfg.OutDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, result.DocID+".yaml"), data, 0o644)
}
