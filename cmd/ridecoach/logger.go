package main

import (
	"io"
	"log/slog"

	"github.com/myrjola/ridecoach/internal/envstruct"
	"github.com/myrjola/ridecoach/internal/errors"
	"github.com/myrjola/ridecoach/internal/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	// Level is one of debug, info, warn and error.
	Level string `env:"RIDECOACH_LOG_LEVEL" envDefault:"info"`
	// File additionally receives the log, rotated by size. Empty logs to w only.
	File       string `env:"RIDECOACH_LOG_FILE" envDefault:""`
	MaxSizeMB  int    `env:"RIDECOACH_LOG_MAX_SIZE_MB" envDefault:"10"`
	MaxBackups int    `env:"RIDECOACH_LOG_MAX_BACKUPS" envDefault:"3"`
}

// newLogger builds the process logger writing to w and, when configured, a rotated log file. The returned
// function closes the file.
func newLogger(w io.Writer, lookupEnv func(string) (string, bool)) (*slog.Logger, func() error, error) {
	var cfg logConfig
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return nil, nil, errors.Wrap(err, "populate log config")
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse log level")
	}
	if cfg.File == "" {
		return logging.NewLogger(w, level), func() error { return nil }, nil
	}
	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     0,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  false,
		Compress:   true,
	}
	return logging.NewLogger(io.MultiWriter(w, rotating), level), rotating.Close, nil
}
