package commands

import (
	"io"
	"time"

	"github.com/daktela/daktela-v6-go/pkg/daktela"
	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to daktela.Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger writes human readable lines to out. Verbose enables
// debug messages; otherwise only warnings and errors are written.
func NewZerologLogger(out io.Writer, verbose bool) *ZerologLogger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}

	return &ZerologLogger{
		logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
	}
}

// Debug implements daktela.Logger.
func (l *ZerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements daktela.Logger.
func (l *ZerologLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements daktela.Logger.
func (l *ZerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements daktela.Logger.
func (l *ZerologLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

var _ daktela.Logger = (*ZerologLogger)(nil)
