// SPDX-License-Identifier: MPL-2.0

// Package convert is the table driven unit converter used to resolve unit
// text and to convert quantities between units.
//
// The built-in table is embedded from units.toml. User unit files share its
// schema and are layered on top with Load: a user unit whose name or symbol
// is already known replaces the built-in one for that key, and a user "best"
// ladder replaces the built-in ladder for the same physical quantity and
// system.
package convert
