// SPDX-License-Identifier: MPL-2.0

// Package recipefs finds recipe files and their images inside a recipe
// collection directory.
//
// An Index resolves short recipe names ("Soup", "dinner/Soup") to .cook
// files. It walks the collection lazily: a lookup only walks as far as it
// must, every recipe file passed on the way is cached, and the walk resumes
// where the previous lookup stopped. Names that were not found are
// remembered, so the index assumes a closed world for its lifetime. Build a
// new Index to see files created after a failed lookup.
//
// A name that resolved once keeps resolving to the same file. A bare name
// prefers the recipe at the top of the collection, then the first match of
// the walk, where files come before directories.
//
// Lookups mutate the index, so an Index is not safe for concurrent use.
// Callers sharing one across goroutines must serialize access.
//
// Images live next to their recipe and are named after it:
//
//	Soup.jpg        whole recipe
//	Soup.2.png      section 0, step 2
//	Soup.1.3.gif    section 1, step 3
package recipefs
