package harness

import (
	"errors"
	"fmt"
	"strings"
)

// exitCoder interface allows checking for exit codes without depending on concrete error types.
type exitCoder interface {
	ExitCode() int
}

// quietError marks errors whose message has already been shown by someone else.
type quietError interface {
	Quiet() bool
}

// exitCodeError carries a specific exit code.
type exitCodeError struct {
	exitCode int
	detail   string
	quiet    bool
}

func (e *exitCodeError) Error() string {
	return e.detail
}

func (e *exitCodeError) ExitCode() int {
	return e.exitCode
}

func (e *exitCodeError) Quiet() bool {
	return e.quiet
}

// newCompileFailedError reports a compiler that exited with status. The compiler's own
// stderr reached the user, so the error is quiet. A compiler with no exit status
// (killed by a signal) maps to 1.
func newCompileFailedError(source string, status int) error {
	exitCode := status
	if exitCode <= 0 {
		exitCode = 1
	}
	return &exitCodeError{
		exitCode: exitCode,
		detail:   fmt.Sprintf("compiling %s failed with exit status %d", source, status),
		quiet:    true,
	}
}

// MismatchError is returned when captured text does not match the expected pattern.
type MismatchError struct {
	Pattern *Pattern
	// Subject names the text, e.g. "Program output" or "Compiler output".
	Subject string
	Text    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Failed to match pattern \"%s\". %s:\n%s", e.Pattern.String(), e.Subject, e.Text)
}

func (e *MismatchError) ExitCode() int {
	return 1
}

// InvalidActionError is returned for an action name that is not one of Actions.
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("Invalid action %s entered", e.Action)
}

func (e *InvalidActionError) ExitCode() int {
	return 1
}

// UsageError is returned when the operands do not fit the action. Action is empty when
// no arguments were given at all.
type UsageError struct {
	Action Action
	Got    int
}

func (e *UsageError) Error() string {
	if e.Action == "" {
		lines := make([]string, 0, len(Actions)+1)
		lines = append(lines, "missing action; usage:")
		for _, a := range Actions {
			lines = append(lines, "  "+a.Usage())
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprintf("%s expects %d arguments, got %d; usage: %s", e.Action, e.Action.arity(), e.Got, e.Action.Usage())
}

func (e *UsageError) ExitCode() int {
	return 1
}

// DecodeError is returned when captured output is not valid UTF-8 text.
type DecodeError struct {
	Subject string
	Offset  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8 text (invalid byte at offset %d)", e.Subject, e.Offset)
}

// ExitCode maps the outcome of Run to the harness's exit status: 0 for nil, the code
// carried by the error chain when there is one, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// IsQuiet reports whether err's message should not be printed.
func IsQuiet(err error) bool {
	var q quietError
	return errors.As(err, &q) && q.Quiet()
}
