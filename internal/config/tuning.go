// Package config loads swarm tuning parameters from JSON. Fields omitted
// from the file keep their defaults, so partial configs are safe; the same
// schema serves startup configuration and test fixtures.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roadsim/swarm/internal/swarm"
)

// Tuning is the root configuration for the swarm engine. Pointer fields
// distinguish "not set" from zero; use the Get* methods or Apply for
// resolved values.
type Tuning struct {
	// Ring geometry
	InnerRadius   *float64 `json:"inner_radius,omitempty"`
	SemiMajorAxis *float64 `json:"semi_major_axis,omitempty"`
	SemiMinorAxis *float64 `json:"semi_minor_axis,omitempty"`

	// Fleet
	MaxVehicles *int     `json:"max_vehicles,omitempty"`
	Velocity    *float64 `json:"velocity,omitempty"`
	ModelPath   *string  `json:"model_path,omitempty"`

	// Lifecycle
	MinSpacing   *float64 `json:"min_spacing,omitempty"`
	Patience     *int     `json:"patience,omitempty"`
	StepInterval *float64 `json:"step_interval,omitempty"`
}

// LoadTuning loads a Tuning from a JSON file. The file must have a .json
// extension and stay under 1MB.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	t := &Tuning{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return t, nil
}

// Validate checks set fields for consistency. The inner radius exceeding the
// outer axes is the configuration inconsistency the engine degrades on, so
// it is rejected here rather than at runtime.
func (t *Tuning) Validate() error {
	if t.InnerRadius != nil && *t.InnerRadius < 0 {
		return fmt.Errorf("inner_radius must be non-negative, got %f", *t.InnerRadius)
	}
	if t.SemiMajorAxis != nil && *t.SemiMajorAxis <= 0 {
		return fmt.Errorf("semi_major_axis must be positive, got %f", *t.SemiMajorAxis)
	}
	if t.SemiMinorAxis != nil && *t.SemiMinorAxis <= 0 {
		return fmt.Errorf("semi_minor_axis must be positive, got %f", *t.SemiMinorAxis)
	}
	if t.InnerRadius != nil && t.SemiMajorAxis != nil && *t.InnerRadius > *t.SemiMajorAxis {
		return fmt.Errorf("inner_radius %f exceeds semi_major_axis %f", *t.InnerRadius, *t.SemiMajorAxis)
	}
	if t.InnerRadius != nil && t.SemiMinorAxis != nil && *t.InnerRadius > *t.SemiMinorAxis {
		return fmt.Errorf("inner_radius %f exceeds semi_minor_axis %f", *t.InnerRadius, *t.SemiMinorAxis)
	}
	if t.MaxVehicles != nil && *t.MaxVehicles < 0 {
		return fmt.Errorf("max_vehicles must be non-negative, got %d", *t.MaxVehicles)
	}
	if t.MinSpacing != nil && *t.MinSpacing < 0 {
		return fmt.Errorf("min_spacing must be non-negative, got %f", *t.MinSpacing)
	}
	if t.Patience != nil && *t.Patience < 0 {
		return fmt.Errorf("patience must be non-negative, got %d", *t.Patience)
	}
	if t.StepInterval != nil && *t.StepInterval <= 0 {
		return fmt.Errorf("step_interval must be positive, got %f", *t.StepInterval)
	}
	return nil
}

// Apply overlays the set fields onto a swarm config and returns the result.
// Start from swarm.DefaultConfig() for the documented defaults.
func (t *Tuning) Apply(cfg swarm.Config) swarm.Config {
	if t.InnerRadius != nil {
		cfg.InnerRadius = *t.InnerRadius
	}
	if t.SemiMajorAxis != nil {
		cfg.SemiMajorAxis = *t.SemiMajorAxis
	}
	if t.SemiMinorAxis != nil {
		cfg.SemiMinorAxis = *t.SemiMinorAxis
	}
	if t.MaxVehicles != nil {
		cfg.MaxVehicles = *t.MaxVehicles
	}
	if t.Velocity != nil {
		cfg.Velocity = *t.Velocity
	}
	if t.ModelPath != nil {
		cfg.ModelPath = *t.ModelPath
	}
	if t.MinSpacing != nil {
		cfg.MinSpacing = *t.MinSpacing
	}
	if t.Patience != nil {
		cfg.Patience = *t.Patience
	}
	if t.StepInterval != nil {
		cfg.StepInterval = *t.StepInterval
	}
	return cfg
}

// GetStepInterval returns the step interval or the engine default.
func (t *Tuning) GetStepInterval() float64 {
	if t.StepInterval == nil {
		return swarm.DefaultConfig().StepInterval
	}
	return *t.StepInterval
}

// GetMinSpacing returns the minimum spacing or the engine default.
func (t *Tuning) GetMinSpacing() float64 {
	if t.MinSpacing == nil {
		return swarm.DefaultConfig().MinSpacing
	}
	return *t.MinSpacing
}

// GetPatience returns the despawn patience or the engine default.
func (t *Tuning) GetPatience() int {
	if t.Patience == nil {
		return swarm.DefaultConfig().Patience
	}
	return *t.Patience
}
