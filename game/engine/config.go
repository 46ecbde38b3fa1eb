package engine

import (
	"errors"
	"fmt"
)

// Default rule values
const (
	DefaultTarget          = 2048
	DefaultFourProbability = 0.1
	DefaultStartTiles      = 2
)

var ErrInvalidConfig = errors.New("invalid engine configuration")

// Config holds the tunable rules of a game
type Config struct {
	Target          int     `json:"target"`
	FourProbability float64 `json:"four_probability"`
	StartTiles      int     `json:"start_tiles"`
}

// DefaultConfig returns the classic 2048 rules
func DefaultConfig() *Config {
	return &Config{
		Target:          DefaultTarget,
		FourProbability: DefaultFourProbability,
		StartTiles:      DefaultStartTiles,
	}
}

// ValidateConfig validates a game configuration for correctness
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Target < 4 || !IsPowerOfTwo(config.Target) {
		return fmt.Errorf("%w: target must be a power of two >= 4, got %d", ErrInvalidConfig, config.Target)
	}
	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("%w: four_probability must be between 0 and 1, got %v", ErrInvalidConfig, config.FourProbability)
	}
	if config.StartTiles < 0 || config.StartTiles > Size*Size {
		return fmt.Errorf("%w: start_tiles must be between 0 and %d, got %d", ErrInvalidConfig, Size*Size, config.StartTiles)
	}
	return nil
}
