package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields type alias for logrus.Fields
type Fields = logrus.Fields

// Log wraps logrus.Logger with component scoping helpers
type Log struct {
	*logrus.Logger
}

// Options controls logger construction
type Options struct {
	Level      string
	File       string // empty = stdout only
	MaxSizeMB  int
	MaxBackups int
}

// New builds a JSON-formatted logger. When a file path is given, output is
// mirrored to a size-rotated log file.
func New(opts Options) *Log {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotated))
	} else {
		logger.SetOutput(os.Stdout)
	}

	return &Log{Logger: logger}
}

// WithComponent returns an entry tagged with the originating component
func (l *Log) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// WithScraper returns an entry tagged with a scraper name
func (l *Log) WithScraper(name string) *logrus.Entry {
	return l.Logger.WithField("scraper", name)
}
