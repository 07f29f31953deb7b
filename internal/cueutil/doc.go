// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates TOML documents against embedded CUE schemas.
//
// Configuration files and unit tables share the same three step flow:
//
//  1. Decode the TOML document into a generic map
//  2. Encode the map as a CUE value and unify it with the schema definition
//  3. Validate, then decode the TOML document into the target Go struct
//
// # Usage
//
//	//go:embed units_schema.cue
//	var unitsSchema string
//
//	result, err := cueutil.ParseTOML[unitFile](
//	    unitsSchema,
//	    data,
//	    "#UnitFile",
//	    cueutil.WithFilename(path),
//	)
//	if err != nil {
//	    return err // includes the offending field path
//	}
//	use(result.Value)
package cueutil
