// SPDX-License-Identifier: MPL-2.0

// Package cooklang parses recipe files written in the Cooklang markup.
//
// A recipe is a sequence of paragraphs (steps), optionally grouped under
// "= Section" headers. Steps reference ingredients (@), cookware (#) and
// timers (~):
//
//	>> servings: 2|4
//	= Dough
//	Mix @flour{250%g} with @water{150*%ml} in a #bowl{}.
//	Rest for ~{30%min}.
//
// Metadata comes from ">> key: value" lines or a YAML front matter block.
// Amounts support numbers, fractions (1/2), ranges (1-2), free text, the
// auto-scale marker (*) and one value per serving tier (1|2|3). "--" starts
// a comment that runs to the end of the line and "[- ... -]" is an inline
// comment.
package cooklang
