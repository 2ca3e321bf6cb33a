// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// ------------------- global loggers -------------------

// Base is the logrus instance every leveled logger writes through.
var Base = logrus.New()

// four logger levels accessible throughout the application
var (
	Info  = &Leveled{level: logrus.InfoLevel}
	Warn  = &Leveled{level: logrus.WarnLevel}
	Error = &Leveled{level: logrus.ErrorLevel}
	Debug = &Leveled{level: logrus.DebugLevel}
)

// Leveled keeps the Printf/Println call sites of a *log.Logger while
// routing every line through Base at a fixed level.
type Leveled struct {
	level logrus.Level
}

// Printf logs a formatted line at the logger's level.
func (l *Leveled) Printf(format string, args ...interface{}) {
	Base.Logf(l.level, format, args...)
}

// Println logs its arguments at the logger's level.
func (l *Leveled) Println(args ...interface{}) {
	Base.Logln(l.level, args...)
}

// With returns an entry carrying structured fields, logged at the
// logger's level through Log.
func (l *Leveled) With(fields logrus.Fields) *Entry {
	return &Entry{entry: Base.WithFields(fields), level: l.level}
}

// Entry is a Leveled logger bound to a set of fields.
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// Log writes msg with the bound fields.
func (e *Entry) Log(msg string) {
	e.entry.Log(e.level, msg)
}

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Ensures `dir` exists.
// - Creates a timestamped log file in `dir`.
// - Writes logs to both the file and stdout.
func InitLogger(dir string) error {
	if dir == "" {
		Base.SetOutput(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
	if err != nil {
		return err
	}

	Base.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// SetLogLevel adjusts output depending on environment. Production gets
// JSON lines and no debug output; everything else keeps debug on with
// the human-readable text formatter.
func SetLogLevel(env string) {
	if env == "production" {
		Base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		Base.SetLevel(logrus.InfoLevel)
		return
	}
	Base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	Base.SetLevel(logrus.DebugLevel)
}

// init wires stdout logging so packages can log before main configures
// the file output.
func init() {
	Base.SetOutput(os.Stdout)
	SetLogLevel("development")
}
