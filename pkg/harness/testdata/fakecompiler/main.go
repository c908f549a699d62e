// Package main is a stand-in for the compiler under test. It accepts the compiler's
// command-line contract and takes its behaviour from directives in the source file,
// one per line, with Go-quoted string operands:
//
//	exit 3                          exit status of the compile step
//	diag "error: unexpected token"  written verbatim to stderr
//	print "42\n"                    what the produced program writes to stdout
//
// The produced program is a shell script that replays the print directives and leaves
// a <program>.ran marker behind when it is executed.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type options struct {
	source         string
	assemblyOutput string
	programOutput  string
	assemblyStdout bool
	includes       []string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "<cli>: %v\n", err)
		os.Exit(64)
	}

	exitCode, diag, output, err := readDirectives(opts.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "<cli>: %v\n", err)
		os.Exit(66)
	}

	fmt.Fprint(os.Stderr, diag)
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	asm := assembly(opts)
	if opts.assemblyStdout {
		fmt.Fprint(os.Stdout, asm)
	} else if opts.assemblyOutput != "" {
		if err := os.WriteFile(opts.assemblyOutput, []byte(asm), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "<cli>: %v\n", err)
			os.Exit(73)
		}
	}

	if opts.programOutput != "" {
		if err := writeProgram(opts.programOutput, output); err != nil {
			fmt.Fprintf(os.Stderr, "<cli>: %v\n", err)
			os.Exit(73)
		}
	}
}

func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--assembly-output" || arg == "--program-output":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if arg == "--assembly-output" {
				opts.assemblyOutput = args[i]
			} else {
				opts.programOutput = args[i]
			}
		case arg == "--assembly-stdout":
			opts.assemblyStdout = true
		case strings.HasPrefix(arg, "-I"):
			opts.includes = append(opts.includes, strings.TrimPrefix(arg, "-I"))
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown flag %s", arg)
		default:
			if opts.source != "" {
				return opts, fmt.Errorf("more than one source file")
			}
			opts.source = arg
		}
	}
	if opts.source == "" {
		return opts, fmt.Errorf("no source file")
	}
	return opts, nil
}

func readDirectives(path string) (exitCode int, diag, output string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", "", err
	}
	defer f.Close()

	var diagB, outB strings.Builder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		verb, operand, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch verb {
		case "exit":
			if exitCode, err = strconv.Atoi(operand); err != nil {
				return 0, "", "", err
			}
		case "diag", "print":
			text, err := strconv.Unquote(operand)
			if err != nil {
				return 0, "", "", fmt.Errorf("bad operand %s: %w", operand, err)
			}
			if verb == "diag" {
				diagB.WriteString(text)
			} else {
				outB.WriteString(text)
			}
		}
	}
	return exitCode, diagB.String(), outB.String(), scanner.Err()
}

func assembly(opts options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; source %s\n", opts.source)
	for _, dir := range opts.includes {
		fmt.Fprintf(&b, "; include %s\n", dir)
	}
	b.WriteString("main:\n\tret\n")
	return b.String()
}

func writeProgram(path, output string) error {
	data := path + ".stdout"
	if err := os.WriteFile(data, []byte(output), 0o644); err != nil {
		return err
	}
	script := fmt.Sprintf("#!/bin/sh\n: > %s\nexec cat %s\n", strconv.Quote(path+".ran"), strconv.Quote(data))
	return os.WriteFile(path, []byte(script), 0o755)
}
