//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Meshes every example script into out/.
func (Run) Examples() error {
	mg.Deps(Build.Binary)
	scripts, err := filepath.Glob("examples/*.lisp")
	if err != nil {
		return err
	}
	for _, s := range scripts {
		fmt.Println("Meshing", s)
		if _, err := executeCmd("./bin/supportmesh", withArgs("-scene", s, "-out", "out"), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Meshes one built-in preset into out/, e.g. mage run:preset cone.
func (Run) Preset(name string) error {
	_, err := executeCmd("go", withArgs("run", ".", "-shape", name, "-out", "out"), withDir("."), withStream())
	return err
}
