// Package models knows which pretrained dlib model files the detector
// needs, checks that they are present and downloads them when they are not.
package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var manifestYAML []byte

// ErrModelsMissing is returned when one or more model files are absent.
// Serving cannot start without them.
var ErrModelsMissing = errors.New("face model files missing")

// Model is one pretrained dlib model file.
type Model struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type manifest struct {
	Models []Model `yaml:"models"`
}

// All returns the models the detector requires.
func All() []Model {
	var m manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}
	return m.Models
}

// Verify checks that every required model file exists in dir and is not
// empty.
func Verify(dir string) error {
	for _, m := range All() {
		path := filepath.Join(dir, m.Name)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s not found in %s", ErrModelsMissing, m.Name, dir)
		}
		if info.Size() == 0 {
			return fmt.Errorf("%w: %s is empty", ErrModelsMissing, path)
		}
	}
	return nil
}
