// SPDX-License-Identifier: MPL-2.0

// Package scan walks a module's declaration tree, yielding each declaration
// together with its annotation list. The walk is lazy, restartable and
// pure; discovery decides what to do with each declaration.
package scan

import (
	"iter"

	"github.com/regista/regista/pkg/registafile"
)

// Scan returns a lazy sequence of (declaration, annotations) pairs over the
// whole declaration tree of rf, depth-first in declaration order. Nested
// scopes are visited recursively, bounded by registafile.MaxDeclDepth;
// declarations beyond the bound are not descended into. A nil file yields
// nothing.
func Scan(rf *registafile.Registafile) iter.Seq2[*registafile.Decl, []registafile.Annotation] {
	return func(yield func(*registafile.Decl, []registafile.Annotation) bool) {
		if rf == nil {
			return
		}
		walk(rf.Decls, 1, yield)
	}
}

func walk(decls []registafile.Decl, depth int, yield func(*registafile.Decl, []registafile.Annotation) bool) bool {
	if depth > registafile.MaxDeclDepth {
		return true
	}
	for i := range decls {
		d := &decls[i]
		if !yield(d, d.Annotations) {
			return false
		}
		if !walk(d.Types, depth+1, yield) {
			return false
		}
	}
	return true
}
