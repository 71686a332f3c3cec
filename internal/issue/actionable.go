// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError carries what a failed command was doing, which file
	// or module it was touching, and what the user can do about it. The
	// CLI renders it via Format; internals treat it as a normal wrapped
	// error.
	//
	// Construct through the ErrorContext builder:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load module graph").
	//		WithResource("./mylib.registamod").
	//		WithSuggestion("Check registamod.cue for syntax errors").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is the attempted action as a verb phrase, e.g.
		// "locate declaration module" or "emit registry".
		Operation string

		// Resource is the module directory, CUE file or registry involved
		// (optional).
		Resource string

		// Suggestions are concrete next steps shown to the user (optional).
		Suggestions []string

		// Cause is the wrapped underlying error (optional).
		Cause error
	}

	// ErrorContext accumulates error context before the failure point is
	// known. Command code sets operation and resource up front and attaches
	// suggestions and the cause where the error actually occurs.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewActionableError builds a bare ActionableError for the operation.
// Richer errors go through NewErrorContext.
func NewActionableError(operation string) *ActionableError {
	return &ActionableError{Operation: operation}
}

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation attaches an operation to err. Nil in, nil out.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext attaches an operation and resource to err. Nil in, nil
// out.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error renders the one-line form "failed to <operation>: <resource>:
// <cause>", skipping absent parts.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the user-facing form: the one-line message, a bulleted
// suggestion list, and, when verbose, the numbered unwrap chain of the
// cause.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// HasSuggestions reports whether any suggestions were attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the attempted action, a verb phrase like
// "parse declarations".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the module directory, file or registry involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one next step. Repeatable.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions appends several next steps at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build produces the error. An operation is mandatory; without one Build
// returns nil so an unset context cannot mask a real error message.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build typed as error for direct use in returns, mapping a
// nil *ActionableError to a nil error.
func (c *ErrorContext) BuildError() error {
	err := c.Build()
	if err == nil {
		return nil
	}
	return err
}
