package categorizer

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger writes human-readable log lines to each of outs at the configured level.
// An unknown or empty level falls back to info.
func NewLogger(level string, outs ...io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	writers := make([]io.Writer, 0, len(outs))
	for _, out := range outs {
		if out == nil {
			continue
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.TimeOnly})
	}
	if len(writers) == 0 {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(lvl).With().Timestamp().Logger()
}
