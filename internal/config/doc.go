// Package config loads, normalizes, and validates the TOML configuration
// for stereoset. Only roots, tool binaries, and logging are configurable;
// the category, dataset, and model tables are fixed data known at startup.
package config
