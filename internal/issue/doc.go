// SPDX-License-Identifier: MPL-2.0

// Package issue carries user-facing fault explanations: a catalog of
// known failure conditions with rendered markdown guidance, and an
// actionable error type that attaches operation, resource and fix
// suggestions to an underlying cause.
package issue
