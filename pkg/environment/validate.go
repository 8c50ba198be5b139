package environment

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/tfdiagram/pkg/errors"
)

// RootFile is the Terraform file every environment directory must contain.
const RootFile = "main.tf"

// Dir resolves an environment key to its directory under root.
func Dir(root, key string) string {
	return filepath.Join(root, filepath.FromSlash(key))
}

// Exists reports whether the environment directory exists under root,
// without checking for the root module file.
func Exists(root, key string) bool {
	info, err := os.Stat(Dir(root, key))
	return err == nil && info.IsDir()
}

// Validate resolves key under root and checks that the directory exists and
// contains [RootFile]. It returns the resolved directory.
//
// The error carries [errors.ErrCodeEnvironmentNotFound] when the directory
// is missing and [errors.ErrCodeMissingRootModule] when the root file is.
func Validate(root, key string) (string, error) {
	dir := Dir(root, key)
	if !Exists(root, key) {
		return "", errors.New(errors.ErrCodeEnvironmentNotFound, "environment %s does not exist", key)
	}
	if _, err := os.Stat(filepath.Join(dir, RootFile)); err != nil {
		return "", errors.New(errors.ErrCodeMissingRootModule, "no %s found in %s", RootFile, key)
	}
	return dir, nil
}

// Status summarizes the on-disk state of an environment.
type Status string

const (
	StatusReady        Status = "ready"
	StatusMissing      Status = "missing"
	StatusNoRootModule Status = "no " + RootFile
)

// Check reports the on-disk status of the environment key under root.
func Check(root, key string) Status {
	_, err := Validate(root, key)
	switch {
	case err == nil:
		return StatusReady
	case errors.Is(err, errors.ErrCodeMissingRootModule):
		return StatusNoRootModule
	default:
		return StatusMissing
	}
}
