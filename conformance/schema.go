// Package conformance runs YAML-described behavior suites against the
// emulator. Each suite file under testdata/ holds assembly source, an
// optional data image, and the expected observable outcome.
package conformance

// Suite is one YAML file of related tests.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tests       []Test `yaml:"tests"`
}

// Test is a single program under test.
type Test struct {
	Name      string            `yaml:"name"`
	Source    string            `yaml:"source"`
	Data      []int             `yaml:"data"`
	PrefixLen bool              `yaml:"prefix_len"`
	Predefine map[string]string `yaml:"predefine"`
	MaxSteps  int               `yaml:"max_steps"`
	Expect    Expect            `yaml:"expect"`
}

// Expect is the observable outcome of a test. Pointer fields
// distinguish "unchecked" from a checked zero value.
type Expect struct {
	Outputs []int  `yaml:"outputs"`
	Acc     *int   `yaml:"acc"`
	Ip      *int   `yaml:"ip"`
	Pc      *int   `yaml:"pc"`
	Stack   *[]int `yaml:"stack"`
	Steps   *int   `yaml:"steps"`

	// Error names an expected runtime fault; AsmError an expected
	// assembly failure. Empty means the stage must succeed.
	Error    string `yaml:"error"`
	AsmError string `yaml:"asm_error"`
}
