package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0 (0 means CPU count), got %d", c.Batch.Workers)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.FPS <= 0 {
		return errors.New("media.fps must be positive")
	}
	if c.Media.SampleRate <= 0 {
		return errors.New("media.sample_rate must be positive")
	}
	if c.Media.MinEdge <= 0 {
		return errors.New("media.min_edge must be positive")
	}
	if c.Media.MinEdge%2 != 0 {
		return fmt.Errorf("media.min_edge must be even, got %d", c.Media.MinEdge)
	}
	return nil
}

func (c *Config) validateQuality() error {
	if c.Quality.Threshold <= 0 {
		return errors.New("quality.threshold must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
