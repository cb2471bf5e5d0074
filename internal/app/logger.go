package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dori/promanager/internal/config"
)

// NewLogger builds the application logger. Output always goes to the
// rotating log file since stdout belongs to the TUI; extra writers (stderr
// for serve) receive the same events.
func NewLogger(cfg config.Config, extra ...io.Writer) (zerolog.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB, // megabytes
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays, // days
		Compress:   true,
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{file}
	for _, w := range extra {
		if cfg.Env == config.EnvLocal {
			cw := zerolog.NewConsoleWriter()
			cw.TimeFormat = time.DateTime
			cw.Out = w
			w = cw
		}
		writers = append(writers, w)
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Str("env", cfg.Env).
		Logger()

	return log, file
}
