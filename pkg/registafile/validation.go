// SPDX-License-Identifier: MPL-2.0

package registafile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDeclTooDeep is the sentinel error wrapped by DepthError.
var ErrDeclTooDeep = errors.New("declaration nesting too deep")

type (
	// ValidationIssue is a single structural problem found in a declaration
	// file. Issues are collected and reported as a batch; I/O failures use
	// plain error returns instead.
	ValidationIssue struct {
		// Decl is the dotted path to the offending declaration.
		Decl string
		// Message describes the specific problem.
		Message string
	}

	// ValidationError batches all issues found in one file.
	ValidationError struct {
		FilePath string
		Issues   []ValidationIssue
	}

	// DepthError is returned when nesting exceeds MaxDeclDepth.
	// It wraps ErrDeclTooDeep for errors.Is compatibility.
	DepthError struct {
		Decl  string
		Depth int
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d declaration issue(s):", e.FilePath, len(e.Issues))
	for _, iss := range e.Issues {
		sb.WriteString("\n  - ")
		if iss.Decl != "" {
			sb.WriteString(iss.Decl)
			sb.WriteString(": ")
		}
		sb.WriteString(iss.Message)
	}
	return sb.String()
}

// Error implements the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("declaration %s nested %d levels deep (limit %d)", e.Decl, e.Depth, MaxDeclDepth)
}

// Unwrap returns ErrDeclTooDeep so callers can use errors.Is.
func (e *DepthError) Unwrap() error { return ErrDeclTooDeep }

// validate checks structural constraints the CUE schema cannot express:
// duplicate names within a scope, self-extension, and the nesting bound.
func (rf *Registafile) validate() error {
	var issues []ValidationIssue

	var walk func(decls []Decl, prefix string, depth int) error
	walk = func(decls []Decl, prefix string, depth int) error {
		if depth > MaxDeclDepth {
			return &DepthError{Decl: prefix, Depth: depth}
		}

		seen := make(map[string]bool, len(decls))
		for i := range decls {
			d := &decls[i]
			path := d.Name
			if prefix != "" {
				path = prefix + "." + d.Name
			}

			if seen[d.Name] {
				issues = append(issues, ValidationIssue{
					Decl:    path,
					Message: "duplicate declaration name in the same scope",
				})
			}
			seen[d.Name] = true

			// A module-qualified extends sharing the name is the override
			// spelling, not self-extension.
			if d.Extends != nil && d.Extends.Name == d.Name && d.Extends.Module == "" {
				issues = append(issues, ValidationIssue{
					Decl:    path,
					Message: "declaration extends itself",
				})
			}

			if d.Static && len(d.Ctors) > 0 {
				issues = append(issues, ValidationIssue{
					Decl:    path,
					Message: "static declaration cannot declare constructors",
				})
			}

			for _, c := range d.Ctors {
				names := make(map[string]bool, len(c.Params))
				for _, p := range c.Params {
					if names[p.Name] {
						issues = append(issues, ValidationIssue{
							Decl:    path,
							Message: fmt.Sprintf("duplicate constructor parameter %q", p.Name),
						})
					}
					names[p.Name] = true
				}
			}

			if err := walk(d.Types, path, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(rf.Decls, "", 1); err != nil {
		return err
	}

	if len(issues) > 0 {
		return &ValidationError{FilePath: rf.FilePath, Issues: issues}
	}
	return nil
}
