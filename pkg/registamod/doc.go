// SPDX-License-Identifier: MPL-2.0

// Package registamod defines module metadata for regista declaration
// modules and assembles module graphs.
//
// A module is a directory named <name>.registamod containing registamod.cue
// (identity, requires, exports) and optionally registafile.cue
// (declarations). registamod.cue is to a declaration module what go.mod is
// to a Go module: it names the module, declares its dependencies, and - via
// the exports allow-list - states which consumers may discover its
// declarations.
package registamod
