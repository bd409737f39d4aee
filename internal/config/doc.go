// Package config loads, normalizes, and validates peloton configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PCS_SLEEP_SECONDS. The Config type centralizes every knob the CLI needs
// and derives the canonical output file locations, so downstream code never
// assembles paths on its own.
package config
