package cli

import (
	"github.com/spf13/pflag"

	"github.com/cericompiler/run-test/internal/compiler"
)

const (
	FlagDebug     = "debug"
	FlagStdlibDir = "stdlib-dir"
)

func getFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("run-test", pflag.ContinueOnError)

	flagSet.BoolP(FlagDebug, "d", false, "Log every spawned command to stderr")
	flagSet.String(FlagStdlibDir, compiler.DefaultStdlibDir, "Standard-library directory passed to the compiler as -I, relative to the source file's directory")

	return flagSet
}
