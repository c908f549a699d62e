// Package compiler drives the compiler under test through its command-line contract:
// a positional source file, --assembly-output, --program-output, --assembly-stdout and
// -I<dir> for the standard library.
package compiler

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cericompiler/run-test/internal/logger"
	"github.com/cericompiler/run-test/internal/process"
)

//go:generate mockgen -destination=../mocks/compiler_client.go -package=mocks github.com/cericompiler/run-test/internal/compiler Client

const (
	// DefaultStdlibDir is where the standard library lives relative to a test source.
	DefaultStdlibDir = "../stdlib"

	flagAssemblyOutput = "--assembly-output"
	flagProgramOutput  = "--program-output"
	flagAssemblyStdout = "--assembly-stdout"
	flagInclude        = "-I"
)

// Build names the source file and the two artifacts a full compilation writes.
type Build struct {
	Source         string
	AssemblyOutput string
	ProgramOutput  string
}

// Client runs the compiler. Neither method treats a non-zero exit status as an error;
// callers decide what the status means.
type Client interface {
	// Compile writes assembly and a linked program to the paths in b. The compiler's
	// stdout and stderr are inherited.
	Compile(ctx context.Context, b Build) (*process.Result, error)
	// Diagnose compiles source with assembly sent to stdout, which is discarded, and
	// returns the captured stderr in the result.
	Diagnose(ctx context.Context, source string) (*process.Result, error)
}

type client struct {
	binary    string
	stdlibDir string
	runner    process.Runner
	logger    logger.Logger
}

var _ Client = (*client)(nil)

// Option configures a Client.
type Option func(*client)

// WithStdlibDir sets the standard-library directory, relative to the source file's
// directory. An absolute dir is used as is.
func WithStdlibDir(dir string) Option {
	return func(c *client) {
		c.stdlibDir = dir
	}
}

// WithLogger sets the logger used for invocation tracing.
func WithLogger(log logger.Logger) Option {
	return func(c *client) {
		c.logger = log
	}
}

// NewClient returns a Client for the compiler at binary.
func NewClient(binary string, runner process.Runner, opts ...Option) Client {
	c := &client{
		binary:    binary,
		stdlibDir: DefaultStdlibDir,
		runner:    runner,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Compile(ctx context.Context, b Build) (*process.Result, error) {
	args := []string{
		b.Source,
		flagAssemblyOutput, b.AssemblyOutput,
		flagProgramOutput, b.ProgramOutput,
		c.includeFlag(b.Source),
	}
	c.logger.Debug(ctx, "compiling", logger.Attr("source", b.Source))

	result, err := c.runner.Run(ctx, process.Spec{
		Binary: c.binary,
		Args:   args,
		Stdout: process.Inherit,
		Stderr: process.Inherit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", b.Source, err)
	}
	return result, nil
}

func (c *client) Diagnose(ctx context.Context, source string) (*process.Result, error) {
	args := []string{
		source,
		flagAssemblyStdout,
		c.includeFlag(source),
	}
	c.logger.Debug(ctx, "collecting diagnostics", logger.Attr("source", source))

	result, err := c.runner.Run(ctx, process.Spec{
		Binary: c.binary,
		Args:   args,
		Stdout: process.Discard,
		Stderr: process.Capture,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", source, err)
	}
	return result, nil
}

func (c *client) includeFlag(source string) string {
	return flagInclude + IncludeDir(source, c.stdlibDir)
}

// IncludeDir resolves stdlibDir against the directory containing source.
func IncludeDir(source, stdlibDir string) string {
	if filepath.IsAbs(stdlibDir) {
		return filepath.Clean(stdlibDir)
	}
	return filepath.Join(filepath.Dir(source), stdlibDir)
}
