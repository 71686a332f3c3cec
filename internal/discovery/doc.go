// SPDX-License-Identifier: MPL-2.0

// Package discovery aggregates matching declarations from the current
// module and every transitively required module.
//
// Two query shapes are supported: by inheritance (declarations whose base
// chain or implemented capabilities contain a type) and by annotation name.
// A required module's declarations take part only if its exports allow-list
// names the consumer (or carries the wildcard); structurally matching
// declarations in non-exporting modules stay invisible, keeping discovery
// bounded by producer intent.
//
// Every entry point is memoized per (query, graph fingerprint) in a
// monotonic insert-or-fetch cache that is safe under concurrent population
// and lives for a single build pass.
package discovery
