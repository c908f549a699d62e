// Package main provides a test helper binary for the process runner tests.
// Flags control what is written to stdout and stderr and the exit status, so the
// tests can check how each stream mode and each exit path is handled.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
)

func main() {
	stdout := flag.String("stdout", "", "content to write to stdout")
	stderr := flag.String("stderr", "", "content to write to stderr")
	exitCode := flag.Int("exit", 0, "exit code to return")
	pwd := flag.Bool("pwd", false, "write the working directory to stdout")
	stdin := flag.Bool("stdin", false, "write the number of bytes read from stdin to stdout")
	kill := flag.Bool("kill", false, "terminate with SIGKILL")
	flag.Parse()

	if *pwd {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(70)
		}
		fmt.Fprint(os.Stdout, wd)
	}
	if *stdin {
		n, _ := io.Copy(io.Discard, os.Stdin)
		fmt.Fprintf(os.Stdout, "stdin:%d", n)
	}
	if *stdout != "" {
		fmt.Fprint(os.Stdout, *stdout)
	}
	if *stderr != "" {
		fmt.Fprint(os.Stderr, *stderr)
	}
	if *kill {
		_ = syscall.Kill(os.Getpid(), syscall.SIGKILL)
		select {}
	}
	os.Exit(*exitCode)
}
