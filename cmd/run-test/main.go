// Command run-test is invoked by CTest once per compiler test case:
//
//	run-test compile_and_pray <compiler> <source> <asm_out> <exe_out>
//	run-test compile_and_match_output <compiler> <source> <asm_out> <exe_out> <output_regex>
//	run-test compile_and_match_diagnostic <compiler> <source> <diagnostic_regex>
package main

import (
	"context"
	"os"

	"github.com/cericompiler/run-test/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
