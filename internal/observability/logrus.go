package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/coachpo/bybitconn/config"
)

// LogrusLogger adapts a logrus logger to the Logger interface.
type LogrusLogger struct {
	entry  *logrus.Entry
	closer io.Closer
}

// NewLogrus builds a JSON logrus logger from settings. When a file is configured,
// output is written to stdout and a rotating file.
func NewLogrus(cfg config.LogSettings) *LogrusLogger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
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

	var closer io.Closer
	if path := strings.TrimSpace(cfg.File); path != "" {
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
		closer = rotating
	} else {
		logger.SetOutput(os.Stdout)
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger), closer: closer}
}

// NewLogrusFrom wraps an existing logrus logger.
func NewLogrusFrom(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger), closer: nil}
}

func (l *LogrusLogger) with(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			continue
		}
		if err, ok := f.Value.(error); ok {
			data[f.Key] = err.Error()
			continue
		}
		data[f.Key] = f.Value
	}
	return l.entry.WithFields(data)
}

func (l *LogrusLogger) Debug(msg string, fields ...Field) { l.with(fields).Debug(msg) }
func (l *LogrusLogger) Info(msg string, fields ...Field)  { l.with(fields).Info(msg) }
func (l *LogrusLogger) Warn(msg string, fields ...Field)  { l.with(fields).Warn(msg) }
func (l *LogrusLogger) Error(msg string, fields ...Field) { l.with(fields).Error(msg) }

// Close releases the rotating file, if any.
func (l *LogrusLogger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
