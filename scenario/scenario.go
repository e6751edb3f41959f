// Package scenario reads solver inputs from YAML files. A scenario holds
// either a raw problem (coupling matrix, residual and descriptors written
// out by hand) or a scene of bodies above a ground plane that is stepped
// through a world.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid is returned for scenarios that fail validation.
	ErrInvalid = errors.New("scenario: invalid")

	// ErrMatrixShape is returned when the rows of a raw coupling matrix do
	// not form a square matrix.
	ErrMatrixShape = errors.New("scenario: coupling matrix is not square")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Scenario is one solver input file.
type Scenario struct {
	Name string `yaml:"name" validate:"required"`

	Problem *Problem `yaml:"problem,omitempty" validate:"required_without=Scene,excluded_with=Scene"`
	Scene   *Scene   `yaml:"scene,omitempty" validate:"required_without=Problem"`
}

// Load reads and validates the scenario at path. JSON files are accepted
// as well, being valid YAML.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes and validates a scenario, filling scene defaults.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if s.Scene != nil {
		s.Scene.setDefaults()
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return &s, nil
}
