package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tfdiagram/pkg/environment"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "dev-us-west-1.svg"))
	touch(t, filepath.Join(dir, "dev-us-west-1.dot"))
	touch(t, filepath.Join(dir, "prod-us-west-1.svg"))

	now := time.Date(2025, 6, 1, 14, 32, 1, 123456000, time.UTC)
	// Success order differs from registry order on purpose.
	m := Build(environment.Default(), []string{"prod-us-west-1", "dev-us-west-1", "not-registered"}, dir, "", now)

	if m.Project != DefaultProject {
		t.Errorf("Project = %q, want %q", m.Project, DefaultProject)
	}
	if m.GeneratedAt != "2025-06-01T14:32:01.123456Z" {
		t.Errorf("GeneratedAt = %q", m.GeneratedAt)
	}
	if len(m.Diagrams) != 2 {
		t.Fatalf("len(Diagrams) = %d, want 2", len(m.Diagrams))
	}

	dev, prod := m.Diagrams[0], m.Diagrams[1]
	if dev.Name != "dev-us-west-1" || prod.Name != "prod-us-west-1" {
		t.Errorf("Diagrams not in registry order: %q, %q", dev.Name, prod.Name)
	}
	if dev.EnvironmentPath != "us-west-1/dev" || dev.SVGFile != "dev-us-west-1.svg" || dev.Color != "#3498db" {
		t.Errorf("dev entry = %+v", dev)
	}
	if dev.DOTFile == nil || *dev.DOTFile != "dev-us-west-1.dot" {
		t.Errorf("dev DOTFile = %v, want dev-us-west-1.dot", dev.DOTFile)
	}
	if prod.DOTFile != nil {
		t.Errorf("prod DOTFile = %q, want nil", *prod.DOTFile)
	}
}

func TestBuildDotFileNullExactlyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	reg := environment.Default()
	var names []string
	for i, d := range reg.All() {
		names = append(names, d.Name)
		touch(t, filepath.Join(dir, SVGName(d.Name)))
		if i%2 == 0 {
			touch(t, filepath.Join(dir, DOTName(d.Name)))
		}
	}

	m := Build(reg, names, dir, "acme", time.Now())
	for _, d := range m.Diagrams {
		_, err := os.Stat(filepath.Join(dir, DOTName(d.Name)))
		exists := err == nil
		if exists != (d.DOTFile != nil) {
			t.Errorf("%s: dot exists = %v, DOTFile = %v", d.Name, exists, d.DOTFile)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	m := Build(environment.Default(), nil, t.TempDir(), "acme", time.Now())

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"diagrams": []`) {
		t.Errorf("empty manifest should encode diagrams as []: %s", buf.String())
	}
}

func TestWriteSchema(t *testing.T) {
	dot := "a.dot"
	m := Manifest{
		GeneratedAt: "2025-06-01T14:32:01.000000Z",
		Project:     "acme",
		Diagrams: []Diagram{
			{Name: "a", Description: "A", EnvironmentPath: "env/a", SVGFile: "a.svg", DOTFile: &dot, Color: "#fff"},
			{Name: "b", Description: "B", EnvironmentPath: "env/b", SVGFile: "b.svg", Color: "#000"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"generated_at", "project", "diagrams"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	diagrams := raw["diagrams"].([]any)
	second := diagrams[1].(map[string]any)
	if v, ok := second["dot_file"]; !ok || v != nil {
		t.Errorf("dot_file = %v (present %v), want explicit null", v, ok)
	}
	for _, key := range []string{"name", "description", "environment_path", "svg_file", "color"} {
		if _, ok := second[key]; !ok {
			t.Errorf("diagram missing key %q", key)
		}
	}

	if !strings.Contains(buf.String(), "\n  \"project\"") {
		t.Error("manifest should use two-space indentation")
	}
}

func TestWriteKeepsMarkupCharacters(t *testing.T) {
	m := Manifest{
		Project: "R&D <core>",
		Diagrams: []Diagram{
			{Name: "a", Description: "VPC & subnets -> EC2", SVGFile: "a.svg", Color: "#fff"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"R&D <core>"`, `"VPC & subnets -> EC2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("manifest should contain %s verbatim:\n%s", want, out)
		}
	}
	if strings.Contains(out, `\u0026`) {
		t.Errorf("manifest should not escape HTML characters:\n%s", out)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(strings.Repeat("stale ", 1000)), 0644); err != nil {
		t.Fatal(err)
	}

	m := Manifest{GeneratedAt: "now", Project: "acme", Diagrams: []Diagram{}}
	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.Project != "acme" || len(got.Diagrams) != 0 {
		t.Errorf("ReadFile() = %+v", got)
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadFile() should fail for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	touch(t, bad)
	if _, err := ReadFile(bad); err == nil {
		t.Error("ReadFile() should fail for invalid JSON")
	}
}
