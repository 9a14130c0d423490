// Package config loads, validates, and normalizes imprint configuration.
//
// Configuration is TOML, resolved from an explicit path, the user config
// directory, or a project-local imprint.toml. All path fields are expanded and
// made absolute during Load so downstream packages never handle "~" or
// relative paths. A sample configuration is embedded for `imprint config init`.
package config
