// Package config loads the optional project configuration file.
//
// A project may carry tfdiagram.toml (or tfdiagram.yaml / tfdiagram.yml) at
// its root:
//
//	project = "terraform-michael"
//
//	[tools]
//	planner = "terraform"
//	visualizer = "blast-radius"
//	renderer = "dot"
//
//	[[environments]]
//	path = "us-west-1/dev"
//	name = "dev-us-west-1"
//	description = "Development environment in us-west-1"
//	color = "#3498db"
//
// Every field is optional. Environments listed in the file replace the
// built-in registry entirely; they are not merged with it.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tfdiagram/pkg/blastradius"
	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/manifest"
	"github.com/matzehuels/tfdiagram/pkg/terraform"
)

// DefaultRenderer is the Graphviz executable checked as a prerequisite.
const DefaultRenderer = "dot"

// FileNames lists the config files looked up at the project root, in order.
var FileNames = []string{"tfdiagram.toml", "tfdiagram.yaml", "tfdiagram.yml"}

// Config is the decoded project configuration.
type Config struct {
	Project      string        `toml:"project" yaml:"project"`
	Tools        Tools         `toml:"tools" yaml:"tools"`
	Environments []Environment `toml:"environments" yaml:"environments"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Tools names the external executables.
type Tools struct {
	Planner    string `toml:"planner" yaml:"planner"`
	Visualizer string `toml:"visualizer" yaml:"visualizer"`
	Renderer   string `toml:"renderer" yaml:"renderer"`
}

// Environment is one registry entry as written in the file.
type Environment struct {
	Path        string `toml:"path" yaml:"path"`
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
	Color       string `toml:"color" yaml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Project: manifest.DefaultProject,
		Tools: Tools{
			Planner:    terraform.DefaultBinary,
			Visualizer: blastradius.DefaultBinary,
			Renderer:   DefaultRenderer,
		},
	}
}

// Find returns the first config file present in root, or "" if none is.
func Find(root string) string {
	for _, name := range FileNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the config file at path. An empty path yields [Default].
// The format is chosen by extension; unknown keys are rejected.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
	}

	cfg.Path = path
	cfg.applyDefaults()
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return stderrors.New("unknown keys: " + strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Project == "" {
		c.Project = d.Project
	}
	if c.Tools.Planner == "" {
		c.Tools.Planner = d.Tools.Planner
	}
	if c.Tools.Visualizer == "" {
		c.Tools.Visualizer = d.Tools.Visualizer
	}
	if c.Tools.Renderer == "" {
		c.Tools.Renderer = d.Tools.Renderer
	}
}

// Registry builds the environment registry. Without configured environments
// the built-in table is returned.
func (c Config) Registry() (environment.Registry, error) {
	if len(c.Environments) == 0 {
		return environment.Default(), nil
	}
	ds := make([]environment.Descriptor, len(c.Environments))
	for i, e := range c.Environments {
		ds[i] = environment.Descriptor{
			Path:        e.Path,
			Name:        e.Name,
			Description: e.Description,
			Color:       e.Color,
		}
	}
	reg, err := environment.NewRegistry(ds...)
	if err != nil {
		return environment.Registry{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "environments")
	}
	return reg, nil
}
