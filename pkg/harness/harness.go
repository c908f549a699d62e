package harness

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/cericompiler/run-test/internal/compiler"
	"github.com/cericompiler/run-test/internal/logger"
	"github.com/cericompiler/run-test/internal/process"
)

const (
	subjectProgramOutput  = "Program output"
	subjectCompilerOutput = "Compiler output"
)

// CompilerFactory returns a client for the compiler binary named by a request.
type CompilerFactory func(binary string) compiler.Client

// Harness runs requests. Each Run is a straight line of at most two child processes,
// each waited for before the next step.
type Harness struct {
	runner      process.Runner
	newCompiler CompilerFactory
	stdlibDir   string
	logger      logger.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(h *Harness) {
		h.logger = log
	}
}

// WithStdlibDir sets the standard-library directory handed to the default compiler
// client, relative to each source file's directory.
func WithStdlibDir(dir string) Option {
	return func(h *Harness) {
		h.stdlibDir = dir
	}
}

// WithCompilerFactory replaces the default compiler client.
func WithCompilerFactory(f CompilerFactory) Option {
	return func(h *Harness) {
		h.newCompiler = f
	}
}

// New returns a Harness that spawns children through runner.
func New(runner process.Runner, opts ...Option) *Harness {
	h := &Harness{
		runner:    runner,
		stdlibDir: compiler.DefaultStdlibDir,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.newCompiler == nil {
		h.newCompiler = func(binary string) compiler.Client {
			return compiler.NewClient(binary, h.runner,
				compiler.WithStdlibDir(h.stdlibDir),
				compiler.WithLogger(h.logger),
			)
		}
	}
	return h
}

// Run executes req and returns nil when the test case passes. Use ExitCode to turn the
// error into the harness's exit status.
func (h *Harness) Run(ctx context.Context, req Request) error {
	h.logger.Debug(ctx, "running test case", logger.Attr("action", string(req.Action())))

	err := h.run(ctx, req)

	h.logger.Debug(ctx, "test case finished",
		logger.Attr("action", string(req.Action())),
		logger.Attr("exit_code", ExitCode(err)),
	)
	return err
}

func (h *Harness) run(ctx context.Context, req Request) error {
	switch r := req.(type) {
	case CompileAndPray:
		return h.compile(ctx, r.Compiler, r.Build)

	case CompileAndMatchOutput:
		if err := h.compile(ctx, r.Compiler, r.Build); err != nil {
			return err
		}
		return h.matchOutput(ctx, r)

	case CompileAndMatchDiagnostic:
		return h.matchDiagnostic(ctx, r)

	default:
		return fmt.Errorf("unsupported request type %T", req)
	}
}

// compile fails fast: a non-zero compiler status ends the request with that status.
func (h *Harness) compile(ctx context.Context, binary string, b compiler.Build) error {
	result, err := h.newCompiler(binary).Compile(ctx, b)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return newCompileFailedError(b.Source, result.ExitCode)
	}
	return nil
}

func (h *Harness) matchOutput(ctx context.Context, r CompileAndMatchOutput) error {
	result, err := h.runner.Run(ctx, process.Spec{
		Binary: r.Build.ProgramOutput,
		Stdout: process.Capture,
		Stderr: process.Inherit,
	})
	if err != nil {
		return fmt.Errorf("failed to run compiled program: %w", err)
	}
	h.logger.Debug(ctx, "program exited", logger.Attr("exit_code", result.ExitCode))

	return match(r.Pattern, subjectProgramOutput, result.Stdout)
}

func (h *Harness) matchDiagnostic(ctx context.Context, r CompileAndMatchDiagnostic) error {
	result, err := h.newCompiler(r.Compiler).Diagnose(ctx, r.Source)
	if err != nil {
		return err
	}
	// The exit status is not part of the verdict.
	h.logger.Debug(ctx, "compiler exited", logger.Attr("exit_code", result.ExitCode))

	return match(r.Pattern, subjectCompilerOutput, result.Stderr)
}

func match(p *Pattern, subject string, captured []byte) error {
	text, err := decode(subject, captured)
	if err != nil {
		return err
	}
	if !p.Match(text) {
		return &MismatchError{Pattern: p, Subject: subject, Text: text}
	}
	return nil
}

func decode(subject string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &DecodeError{Subject: subject, Offset: invalidOffset(b)}
	}
	return string(b), nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
