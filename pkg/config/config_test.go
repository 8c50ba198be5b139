package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Project != "terraform-michael" {
		t.Errorf("Project = %q", cfg.Project)
	}
	want := Tools{Planner: "terraform", Visualizer: "blast-radius", Renderer: "dot"}
	if cfg.Tools != want {
		t.Errorf("Tools = %+v, want %+v", cfg.Tools, want)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(reg.Keys(), environment.Default().Keys()) {
		t.Errorf("Registry keys = %v", reg.Keys())
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "tfdiagram.toml",
			content: `project = "acme"

[tools]
planner = "tofu"

[[environments]]
path = "eu/dev"
name = "dev-eu"
description = "Development in eu"
color = "#123456"
`,
		},
		{
			name: "yaml",
			file: "tfdiagram.yaml",
			content: `project: acme
tools:
  planner: tofu
environments:
  - path: eu/dev
    name: dev-eu
    description: Development in eu
    color: "#123456"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)
			cfg, err := Load(p)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Project != "acme" || cfg.Path != p {
				t.Errorf("Project = %q, Path = %q", cfg.Project, cfg.Path)
			}
			if cfg.Tools.Planner != "tofu" || cfg.Tools.Visualizer != "blast-radius" || cfg.Tools.Renderer != "dot" {
				t.Errorf("Tools = %+v", cfg.Tools)
			}

			reg, err := cfg.Registry()
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(reg.Keys(), []string{"eu/dev"}) {
				t.Errorf("Registry keys = %v, want [eu/dev]", reg.Keys())
			}
			d, _ := reg.Lookup("eu/dev")
			if d.Name != "dev-eu" || d.Color != "#123456" {
				t.Errorf("descriptor = %+v", d)
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "tfdiagram.yml", "")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Project != "terraform-michael" {
		t.Errorf("Project = %q", cfg.Project)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown toml key", "tfdiagram.toml", "projekt = \"x\"\n"},
		{"unknown yaml key", "tfdiagram.yaml", "projekt: x\n"},
		{"malformed toml", "tfdiagram.toml", "project = \n"},
		{"unsupported extension", "tfdiagram.json", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(p)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) = %v, want INVALID_CONFIG", err)
	}
}

func TestRegistryRejectsInvalidEnvironments(t *testing.T) {
	cfg := Default()
	cfg.Environments = []Environment{
		{Path: "a", Name: "same", Color: "#fff"},
		{Path: "b", Name: "same", Color: "#000"},
	}
	if _, err := cfg.Registry(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Registry() = %v, want INVALID_CONFIG", err)
	}
}

func TestRegistryRejectsMissingPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tfdiagram.toml", "[[environments]]\nname = \"root\"\ncolor = \"#fff\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	reg, err := cfg.Registry()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Registry() = %v (keys %v), want INVALID_CONFIG", err, reg.Keys())
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if got := Find(dir); got != "" {
		t.Errorf("Find() = %q, want empty", got)
	}

	yml := writeFile(t, dir, "tfdiagram.yml", "")
	if got := Find(dir); got != yml {
		t.Errorf("Find() = %q, want %q", got, yml)
	}

	toml := writeFile(t, dir, "tfdiagram.toml", "")
	if got := Find(dir); got != toml {
		t.Errorf("Find() = %q, want %q (toml takes precedence)", got, toml)
	}
}
