// Package config holds the validated configuration for one envseal run.
//
// The CLI layer parses flags and arguments into a single immutable Config
// value via New, which also merges the optional per-directory
// .envseal.toml file (default recipient and exclude patterns). The engine
// only ever sees the finished Config.
package config
