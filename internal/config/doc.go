// SPDX-License-Identifier: MPL-2.0

// Package config handles chef configuration using Viper with TOML as the file format.
//
// Configuration is layered, lowest precedence first: built-in defaults, the
// global file (~/.config/chef/config.toml or the XDG, macOS or Windows
// equivalent), the collection file (<collection>/.cooklang/config.toml) and
// finally a file given explicitly with --config. Each file is validated
// against an embedded CUE schema (config_schema.cue) before it is merged.
//
// Path values may use "~" and $VARIABLES; relative paths are resolved against
// the directory of the file that sets them.
package config
