package environment

import (
	"path"
	"slices"

	"github.com/matzehuels/tfdiagram/pkg/errors"
)

// Descriptor describes one registered environment.
type Descriptor struct {
	// Path is the environment key: a slash-separated directory path
	// relative to the project root.
	Path string
	// Name is the display name. Diagram files are named after it.
	Name        string
	Description string
	// Color is a CSS hex color used by downstream viewers.
	Color string
}

// Validate checks the descriptor fields.
func (d Descriptor) Validate() error {
	if err := errors.ValidateEnvironmentPath(d.Path); err != nil {
		return err
	}
	if err := errors.ValidateDisplayName(d.Name); err != nil {
		return err
	}
	return errors.ValidateColor(d.Color)
}

// Registry is an ordered, immutable set of environment descriptors.
// The zero value is an empty registry.
type Registry struct {
	entries []Descriptor
	byPath  map[string]int
}

// NewRegistry builds a registry preserving the given order. It rejects
// invalid descriptors and duplicate keys or display names.
func NewRegistry(descriptors ...Descriptor) (Registry, error) {
	r := Registry{
		entries: make([]Descriptor, 0, len(descriptors)),
		byPath:  make(map[string]int, len(descriptors)),
	}
	names := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return Registry{}, err
		}
		d.Path = path.Clean(d.Path)
		if d.Path == "." {
			return Registry{}, errors.New(errors.ErrCodeInvalidPath, "environment path cannot be the project root")
		}
		if _, dup := r.byPath[d.Path]; dup {
			return Registry{}, errors.New(errors.ErrCodeInvalidEnvironment, "duplicate environment %q", d.Path)
		}
		if names[d.Name] {
			return Registry{}, errors.New(errors.ErrCodeInvalidEnvironment, "duplicate display name %q", d.Name)
		}
		r.byPath[d.Path] = len(r.entries)
		names[d.Name] = true
		r.entries = append(r.entries, d)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// static tables such as [Default].
func MustRegistry(descriptors ...Descriptor) Registry {
	r, err := NewRegistry(descriptors...)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the descriptors in registration order. The returned slice is
// a copy.
func (r Registry) All() []Descriptor {
	return slices.Clone(r.entries)
}

// Len returns the number of registered environments.
func (r Registry) Len() int { return len(r.entries) }

// Keys returns the environment keys in registration order.
func (r Registry) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, d := range r.entries {
		keys[i] = d.Path
	}
	return keys
}

// Lookup returns the descriptor registered under key.
func (r Registry) Lookup(key string) (Descriptor, bool) {
	i, ok := r.byPath[path.Clean(key)]
	if !ok {
		return Descriptor{}, false
	}
	return r.entries[i], true
}

// Default returns the built-in environment table.
func Default() Registry {
	return MustRegistry(
		Descriptor{
			Path:        "us-west-1/dev",
			Name:        "dev-us-west-1",
			Description: "Development environment in us-west-1",
			Color:       "#3498db",
		},
		Descriptor{
			Path:        "us-west-1/staging",
			Name:        "staging-us-west-1",
			Description: "Staging environment in us-west-1",
			Color:       "#f39c12",
		},
		Descriptor{
			Path:        "us-west-1/prod",
			Name:        "prod-us-west-1",
			Description: "Production environment in us-west-1",
			Color:       "#e74c3c",
		},
		Descriptor{
			Path:        "us-west-2/dev",
			Name:        "dev-us-west-2",
			Description: "Development environment in us-west-2",
			Color:       "#2ecc71",
		},
	)
}
