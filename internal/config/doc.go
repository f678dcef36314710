// Package config loads, normalizes, and validates curator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CURATOR_WORKERS and CURATOR_LOG_LEVEL. The Config type centralizes every knob
// the batch commands need: worker counts, external tool binaries, the media
// re-encode parameters, and the quality threshold.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
