// Package process runs child processes to completion, one at a time, with each output
// stream either inherited, captured or discarded.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	clierrors "github.com/snyk/error-catalog-golang-public/cli"
	"github.com/snyk/error-catalog-golang-public/snyk_errors"

	"github.com/cericompiler/run-test/internal/logger"
)

//go:generate mockgen -destination=../mocks/process_runner.go -package=mocks github.com/cericompiler/run-test/internal/process Runner

// Stream selects what happens to one output stream of a child.
type Stream int

const (
	// Inherit forwards the stream to the runner's own writer.
	Inherit Stream = iota
	// Capture collects the stream into the Result.
	Capture
	// Discard drops the stream.
	Discard
)

func (s Stream) String() string {
	switch s {
	case Inherit:
		return "inherit"
	case Capture:
		return "capture"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("Stream(%d)", int(s))
	}
}

// Spec describes one child process. Stdin is always the null device.
type Spec struct {
	Binary string
	Args   []string
	Dir    string
	Stdout Stream
	Stderr Stream
}

// Result is what a terminated child left behind. Stdout and Stderr are nil unless the
// corresponding stream was captured.
type Result struct {
	// ExitCode is -1 when the child was terminated by a signal.
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner starts a child and blocks until it terminates. A non-zero exit status is not an
// error; errors are reserved for children that could not be run at all.
type Runner interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
}

type cmdRunner struct {
	stdout io.Writer
	stderr io.Writer
	logger logger.Logger
}

var _ Runner = (*cmdRunner)(nil)

// NewRunner returns a Runner that forwards inherited streams to stdout and stderr.
// Passing *os.File values hands the descriptors to the child directly.
func NewRunner(stdout, stderr io.Writer, log logger.Logger) Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &cmdRunner{stdout: stdout, stderr: stderr, logger: log}
}

func (r *cmdRunner) Run(ctx context.Context, spec Spec) (*Result, error) {
	cmd := exec.CommandContext(ctx, spec.Binary, spec.Args...)
	cmd.Dir = spec.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = sink(spec.Stdout, r.stdout, &stdout)
	cmd.Stderr = sink(spec.Stderr, r.stderr, &stderr)

	r.logger.Debug(ctx, "starting process",
		logger.Attr("binary", spec.Binary),
		logger.Attr("args", spec.Args),
		logger.Attr("dir", spec.Dir),
		logger.Attr("stdout", spec.Stdout.String()),
		logger.Attr("stderr", spec.Stderr.String()),
	)

	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		r.logger.Error(ctx, "process could not be run", logger.Attr("binary", spec.Binary), logger.Err(err))
		return nil, clierrors.NewGeneralSCAFailureError(
			fmt.Sprintf("failed to run %s: %v", spec.Binary, err),
			snyk_errors.WithCause(err),
		)
	}

	result := &Result{ExitCode: cmd.ProcessState.ExitCode()}
	if spec.Stdout == Capture {
		result.Stdout = stdout.Bytes()
	}
	if spec.Stderr == Capture {
		result.Stderr = stderr.Bytes()
	}

	r.logger.Debug(ctx, "process exited",
		logger.Attr("binary", spec.Binary),
		logger.Attr("exit_code", result.ExitCode),
	)
	return result, nil
}

func sink(s Stream, inherited io.Writer, captured *bytes.Buffer) io.Writer {
	switch s {
	case Capture:
		return captured
	case Discard:
		// exec connects a nil writer to the null device.
		return nil
	default:
		return inherited
	}
}
