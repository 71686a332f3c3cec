// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

// ExitError lets a command request a specific process exit code while still
// returning through RunE; Execute maps it to os.Exit after cobra unwinds.
// Generation passes that produced error diagnostics exit 1 this way.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
