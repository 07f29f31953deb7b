// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// An ActionableError says what chef was doing, on which recipe, file or
// directory, and what the user can try next. Errors that match a known
// problem also point at an Issue: a Markdown guide rendered with glamour.
package issue
