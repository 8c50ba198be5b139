// Package environment defines the infrastructure environments tfdiagram
// knows about and checks that they exist on disk.
//
// An environment is a self-contained Terraform root module directory, keyed
// by its path relative to the project root (for example "us-west-1/dev").
// Each key maps to display metadata: the name used for output files, a
// human-readable description and a display color.
//
// A [Registry] is an ordered, immutable table of descriptors. It is built
// once at startup, either from [Default] or from a project configuration
// file, and handed to the orchestrator explicitly:
//
//	reg, err := environment.NewRegistry(descriptors...)
//	if err != nil {
//	    return err
//	}
//	for _, d := range reg.All() {
//	    dir, err := environment.Validate(root, d.Path)
//	    ...
//	}
package environment
