package plus

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config tunes the solver. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// ConvergenceTol is the residual 2-norm below which a Newton solve stops.
	ConvergenceTol float64 `yaml:"convergence_tol" validate:"gt=0"`
	// MaxNewtonIters caps the iterations of one Newton solve.
	MaxNewtonIters int `yaml:"max_newton_iters" validate:"min=1"`
	// MaxRollingSpeed is the slip speed above which a contact starts Sliding.
	MaxRollingSpeed float64 `yaml:"max_rolling_speed" validate:"gt=0"`
	// CosMaxSlidingDirChange bounds how far a slip direction may turn within
	// one sliding interval.
	CosMaxSlidingDirChange float64 `yaml:"cos_max_sliding_dir_change" validate:"gt=0,lt=1"`
	// Smoothness is the squared width of the soft min used in the Jacobian.
	Smoothness float64 `yaml:"smoothness" validate:"gt=0"`
	// ViolationTol is the largest constraint violation accepted after a solve.
	ViolationTol float64 `yaml:"violation_tol" validate:"gte=0"`
	// RankTol is the relative singular value cutoff of the least-squares solve.
	RankTol float64 `yaml:"rank_tol" validate:"gt=0,lt=1"`
	// MaxPruningIters caps active-set changes within one interval.
	MaxPruningIters int `yaml:"max_pruning_iters" validate:"min=1"`
	// MaxIntervals caps the sliding intervals of one solve.
	MaxIntervals int `yaml:"max_intervals" validate:"min=1"`
}

// DefaultConfig returns the settings used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		ConvergenceTol:         1e-10,
		MaxNewtonIters:         20,
		MaxRollingSpeed:        1e-3,
		CosMaxSlidingDirChange: math.Cos(30 * math.Pi / 180),
		Smoothness:             1e-6,
		ViolationTol:           1e-10,
		RankTol:                1e-12,
		MaxPruningIters:        100,
		MaxIntervals:           50,
	}
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path when
// it exists, then the PLUS_* environment variables, and validates the result.
// JSON files load too, being valid YAML. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadConfigFromEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	return nil
}

func loadConfigFromEnv(cfg *Config) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"PLUS_CONVERGENCE_TOL", &cfg.ConvergenceTol},
		{"PLUS_MAX_ROLLING_SPEED", &cfg.MaxRollingSpeed},
		{"PLUS_COS_MAX_SLIDING_DIR_CHANGE", &cfg.CosMaxSlidingDirChange},
		{"PLUS_SMOOTHNESS", &cfg.Smoothness},
		{"PLUS_VIOLATION_TOL", &cfg.ViolationTol},
		{"PLUS_RANK_TOL", &cfg.RankTol},
	}
	for _, f := range floats {
		v, ok := os.LookupEnv(f.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f.key, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PLUS_MAX_NEWTON_ITERS", &cfg.MaxNewtonIters},
		{"PLUS_MAX_PRUNING_ITERS", &cfg.MaxPruningIters},
		{"PLUS_MAX_INTERVALS", &cfg.MaxIntervals},
	}
	for _, i := range ints {
		v, ok := os.LookupEnv(i.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, i.key, err)
		}
		*i.dst = parsed
	}

	return nil
}
