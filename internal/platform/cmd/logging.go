package cmd

import (
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls where command logs go.
type LogConfig struct {
	// File, when set, receives a rotated copy of every log line.
	File string `env:"DICETOWER_LOG_FILE"`
}

// SetupLogging sets the standard logger prefix for service and, when
// cfg.File is set, tees output into a rotating file. The returned closer
// releases the file.
func SetupLogging(service string, cfg LogConfig) io.Closer {
	log.SetPrefix(LogPrefix(service))
	if strings.TrimSpace(cfg.File) == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
