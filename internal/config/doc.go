// Package config loads, validates, and normalizes driveindex configuration.
//
// Configuration is read from TOML (explicit --config path, then
// ~/.config/driveindex/config.toml, then ./driveindex.toml) with defaults
// applied for everything the file omits. Path fields are expanded to absolute
// paths during load, so downstream packages never handle "~" themselves.
package config
