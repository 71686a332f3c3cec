// SPDX-License-Identifier: MPL-2.0

// Package registafile defines the declaration file format for regista
// modules.
//
// A registafile.cue declares the types a module contributes: abstract marker
// types that define registries, and concrete member types that populate
// them. Declarations carry annotations, public constructor signatures with
// base calls, properties, and nested type scopes. The file is parsed against
// an embedded CUE schema; constructor base calls keep their surface syntax
// (positional list, named struct, or full body form) so downstream passes
// can resolve arguments by position regardless of spelling.
package registafile
