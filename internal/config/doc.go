// Package config loads, normalizes, and validates shotpath configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CE_LOCATION for the current site and the AWS_* credential variables for the
// S3 transport. The Config type centralizes every knob the CLI and library
// wiring need, so site resolution, remote transports, the catalog database,
// and logging are all discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lower-cased site names, and clear validation errors.
package config
