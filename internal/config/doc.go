// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every field is optional: an empty path or an empty file yields the defaults,
// which poll BTC/volume and USDT/count and serve metrics on :8080.
package config
