// SPDX-License-Identifier: MPL-2.0

// Package quantity models recipe quantities and their arithmetic.
//
// A Quantity is a QuantityValue (Fixed, or Scalable by servings) plus an
// optional unit. Units are resolved lazily through a Converter the first time
// they are needed, and the resolution is cached in the unit for good. Only
// fixed values take part in arithmetic: scale a quantity before adding it.
//
// The package never logs; every failure is returned as a typed error that
// unwraps to one of the package sentinels.
package quantity
