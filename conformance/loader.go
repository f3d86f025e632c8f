package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSuite reads a single YAML suite file.
func LoadSuite(path string) (suite *Suite, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}

	suite = &Suite{}
	err = yaml.Unmarshal(raw, suite)
	if err != nil {
		suite = nil
		return
	}

	return
}

// LoadSuites reads every *.yaml suite under dir, in name order.
func LoadSuites(dir string) (suites []*Suite, err error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return
	}

	for _, path := range paths {
		var suite *Suite
		suite, err = LoadSuite(path)
		if err != nil {
			err = fmt.Errorf("%v: %w", path, err)
			suites = nil
			return
		}
		suites = append(suites, suite)
	}

	return
}
