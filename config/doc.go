// Package config loads application configuration for stream consumers. It
// layers a YAML config file, a .env file, and process environment
// variables through viper, then validates the result.
package config
