// Package config loads and validates the prism configuration file.
//
// Configuration is TOML, read from ~/.config/prism/config.toml (or an
// explicit --config path), with every field defaulted so prism runs
// with no config file at all. Paths support ~ expansion. Load
// normalizes and validates before returning, so the rest of the
// program never sees an unvetted config.
package config
