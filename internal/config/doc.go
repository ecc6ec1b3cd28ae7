// Package config loads lumberjack's TOML configuration.
//
// Files are searched in order: the --config flag, ~/.config/lumberjack/config.toml,
// then ./lumberjack.toml. Missing files are not an error; defaults apply.
// Command-line flags override file values after Load returns.
package config
