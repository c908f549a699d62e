package cli

import (
	"fmt"
	"io"

	"github.com/snyk/go-application-framework/pkg/configuration"
	"github.com/spf13/pflag"

	"github.com/cericompiler/run-test/internal/logger"
	"github.com/cericompiler/run-test/pkg/harness"
)

// newConfig copies the parsed flags into a Configuration.
func newConfig(flags *pflag.FlagSet) (configuration.Configuration, error) {
	debug, err := flags.GetBool(FlagDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to read --%s: %w", FlagDebug, err)
	}
	stdlibDir, err := flags.GetString(FlagStdlibDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read --%s: %w", FlagStdlibDir, err)
	}

	config := configuration.New()
	config.Set(configuration.DEBUG, debug)
	config.Set(FlagStdlibDir, stdlibDir)
	return config, nil
}

func newLogger(config configuration.Configuration, stderr io.Writer) logger.Logger {
	if config.GetBool(configuration.DEBUG) {
		return logger.NewConsole(stderr, true)
	}
	return logger.Nop()
}

func harnessOptions(config configuration.Configuration, log logger.Logger) []harness.Option {
	return []harness.Option{
		harness.WithLogger(log),
		harness.WithStdlibDir(config.GetString(FlagStdlibDir)),
	}
}
