package config

import "errors"

// Sentinel errors returned by Load and Validate; match them with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	// ErrConfigNotFound is wrapped together with ErrLoadConfig when
	// KDRAMA_CONFIG names a file that does not exist.
	ErrConfigNotFound = errors.New("config file not found")
)
