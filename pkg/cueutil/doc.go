// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing helpers for regista file
// formats (registafile.cue, registamod.cue, config.cue).
//
// All formats follow the same 3-step flow: compile an embedded schema,
// compile the user data, then unify, validate and decode into a Go struct.
// The unified cue.Value is returned alongside the decoded struct so callers
// can extract values the Go decoding flattens (constructor base calls keep
// their surface syntax this way).
package cueutil
