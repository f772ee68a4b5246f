// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls log output.
type Config struct {
	Level        string    `json:"level" yaml:"level"`                 // debug, info, warn, error
	Format       string    `json:"format" yaml:"format"`               // json or pretty
	TimeFormat   string    `json:"time_format" yaml:"time_format"`     // Timestamp layout, RFC3339 if empty
	ReportCaller bool      `json:"report_caller" yaml:"report_caller"` // Add file:line to each entry
	Output       io.Writer `json:"-" yaml:"-"`                         // Defaults to stdout
}

// Init builds a logger from config, installs it as the zerolog global
// logger and returns it. Unknown levels fall back to info.
func Init(config Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	if config.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: config.TimeFormat}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if config.ReportCaller {
		ctx = ctx.Caller()
	}

	logger := ctx.Logger()
	log.Logger = logger
	return logger
}
