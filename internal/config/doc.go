// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates regista configuration. Configuration
// lives in a CUE file under the platform config directory (or the current
// directory), is validated against an embedded schema, and is merged over
// defaults through Viper so flags and environment can override it.
package config
