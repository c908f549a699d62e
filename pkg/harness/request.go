// Package harness turns one test-case invocation into a verdict: it parses the
// positional arguments into a Request, drives the compiler (and the compiled program)
// for that request and checks what they printed.
package harness

import (
	"fmt"

	"github.com/cericompiler/run-test/internal/compiler"
)

// Action names a kind of test case on the command line.
type Action string

const (
	ActionCompileAndPray            Action = "compile_and_pray"
	ActionCompileAndMatchOutput     Action = "compile_and_match_output"
	ActionCompileAndMatchDiagnostic Action = "compile_and_match_diagnostic"
)

// Actions lists every supported action in usage order.
var Actions = []Action{
	ActionCompileAndPray,
	ActionCompileAndMatchOutput,
	ActionCompileAndMatchDiagnostic,
}

// Request is one of CompileAndPray, CompileAndMatchOutput or CompileAndMatchDiagnostic.
type Request interface {
	Action() Action
	isRequest()
}

// CompileAndPray passes when the source compiles.
type CompileAndPray struct {
	Compiler string
	Build    compiler.Build
}

// CompileAndMatchOutput passes when the source compiles and the program's standard
// output matches Pattern.
type CompileAndMatchOutput struct {
	Compiler string
	Build    compiler.Build
	Pattern  *Pattern
}

// CompileAndMatchDiagnostic passes when the compiler's standard error for Source
// matches Pattern, whatever its exit status.
type CompileAndMatchDiagnostic struct {
	Compiler string
	Source   string
	Pattern  *Pattern
}

func (CompileAndPray) Action() Action            { return ActionCompileAndPray }
func (CompileAndMatchOutput) Action() Action     { return ActionCompileAndMatchOutput }
func (CompileAndMatchDiagnostic) Action() Action { return ActionCompileAndMatchDiagnostic }

func (CompileAndPray) isRequest()            {}
func (CompileAndMatchOutput) isRequest()     {}
func (CompileAndMatchDiagnostic) isRequest() {}

// Usage returns the argument synopsis for a.
func (a Action) Usage() string {
	switch a {
	case ActionCompileAndPray:
		return string(a) + " <compiler> <source> <asm_out> <exe_out>"
	case ActionCompileAndMatchOutput:
		return string(a) + " <compiler> <source> <asm_out> <exe_out> <output_regex>"
	case ActionCompileAndMatchDiagnostic:
		return string(a) + " <compiler> <source> <diagnostic_regex>"
	default:
		return string(a)
	}
}

func (a Action) arity() int {
	switch a {
	case ActionCompileAndPray:
		return 4
	case ActionCompileAndMatchOutput:
		return 5
	case ActionCompileAndMatchDiagnostic:
		return 3
	default:
		return 0
	}
}

func lookupAction(name string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// Parse builds a Request from args, which start with the action name. An unknown action
// is reported before the argument count is looked at. Regex arguments are compiled here
// so a bad pattern fails before anything is spawned.
func Parse(args []string) (Request, error) {
	if len(args) == 0 {
		return nil, &UsageError{}
	}

	action, ok := lookupAction(args[0])
	if !ok {
		return nil, &InvalidActionError{Action: args[0]}
	}

	operands := args[1:]
	if len(operands) != action.arity() {
		return nil, &UsageError{Action: action, Got: len(operands)}
	}

	switch action {
	case ActionCompileAndPray:
		return CompileAndPray{
			Compiler: operands[0],
			Build:    buildFrom(operands),
		}, nil

	case ActionCompileAndMatchOutput:
		pattern, err := CompilePattern(operands[4])
		if err != nil {
			return nil, fmt.Errorf("invalid output pattern: %w", err)
		}
		return CompileAndMatchOutput{
			Compiler: operands[0],
			Build:    buildFrom(operands),
			Pattern:  pattern,
		}, nil

	case ActionCompileAndMatchDiagnostic:
		pattern, err := CompilePattern(operands[2])
		if err != nil {
			return nil, fmt.Errorf("invalid diagnostic pattern: %w", err)
		}
		return CompileAndMatchDiagnostic{
			Compiler: operands[0],
			Source:   operands[1],
			Pattern:  pattern,
		}, nil
	}

	return nil, &InvalidActionError{Action: args[0]}
}

func buildFrom(operands []string) compiler.Build {
	return compiler.Build{
		Source:         operands[1],
		AssemblyOutput: operands[2],
		ProgramOutput:  operands[3],
	}
}
