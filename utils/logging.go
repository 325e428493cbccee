package utils

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging sends the standard logger to stdout and a rotating file under dir.
// An empty dir keeps stdout only. The returned writer is the combined sink.
func SetupLogging(dir string) io.Writer {
	if dir == "" {
		log.SetOutput(os.Stdout)
		return os.Stdout
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "survey.log"),
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	w := io.MultiWriter(os.Stdout, rotator)
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return w
}
