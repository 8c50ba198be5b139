// Package manifest writes the metadata.json file that describes the
// diagrams produced by a generate run.
//
// The file is rewritten from scratch on every run:
//
//	{
//	  "generated_at": "2025-06-01T14:32:01.123456+02:00",
//	  "project": "terraform-michael",
//	  "diagrams": [
//	    {
//	      "name": "dev-us-west-1",
//	      "description": "Development environment in us-west-1",
//	      "environment_path": "us-west-1/dev",
//	      "svg_file": "dev-us-west-1.svg",
//	      "dot_file": "dev-us-west-1.dot",
//	      "color": "#3498db"
//	    }
//	  ]
//	}
//
// dot_file is null when the textual graph was not captured.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/tfdiagram/pkg/environment"
)

const (
	// FileName is the manifest file name inside the diagrams directory.
	FileName = "metadata.json"

	// DefaultProject is the project identifier written when none is configured.
	DefaultProject = "terraform-michael"

	// TimeFormat is the ISO-8601 layout of generated_at.
	TimeFormat = "2006-01-02T15:04:05.000000Z07:00"
)

// Manifest is the top-level metadata document.
type Manifest struct {
	GeneratedAt string    `json:"generated_at"`
	Project     string    `json:"project"`
	Diagrams    []Diagram `json:"diagrams"`
}

// Diagram describes one successfully generated environment diagram.
type Diagram struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	EnvironmentPath string  `json:"environment_path"`
	SVGFile         string  `json:"svg_file"`
	DOTFile         *string `json:"dot_file"`
	Color           string  `json:"color"`
}

// SVGName and DOTName return the diagram file names for a display name.
func SVGName(name string) string { return name + ".svg" }
func DOTName(name string) string { return name + ".dot" }

// Build assembles the manifest for the given successful display names.
// Entries follow registry order; names not in the registry are ignored.
// dot_file is set only if the .dot file exists in diagramsDir.
func Build(reg environment.Registry, successful []string, diagramsDir, project string, now time.Time) Manifest {
	if project == "" {
		project = DefaultProject
	}
	m := Manifest{
		GeneratedAt: now.Format(TimeFormat),
		Project:     project,
		Diagrams:    []Diagram{},
	}

	for _, d := range reg.All() {
		if !slices.Contains(successful, d.Name) {
			continue
		}
		m.Diagrams = append(m.Diagrams, Diagram{
			Name:            d.Name,
			Description:     d.Description,
			EnvironmentPath: d.Path,
			SVGFile:         SVGName(d.Name),
			DOTFile:         existingFile(diagramsDir, DOTName(d.Name)),
			Color:           d.Color,
		})
	}
	return m
}

func existingFile(dir, name string) *string {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil || info.IsDir() {
		return nil
	}
	return &name
}

// Write encodes m as indented JSON.
func Write(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// WriteFile writes m to path, replacing any previous manifest.
func WriteFile(path string, m Manifest) error {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a manifest from path.
func ReadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}
