package util

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggingInit configures logrus according to the loaded Config. When a log
// path is set, output goes to a size-rotated file as well as stderr.
func LoggingInit() {
	level, err := log.ParseLevel(Config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if Config.LogPath == "" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   Config.LogPath,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		Compress:   true,
	}

	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
}
