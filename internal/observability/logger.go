// Package observability defines shared logging primitives.
package observability

// Logger captures structured logging behaviours shared across layers.
// Components receive one through their options; there is no process-wide instance.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a key/value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return noopLogger{}
}

// OrNop returns logger, or a discarding logger when it is nil.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}

// With returns a logger that prepends fields to every entry.
func With(logger Logger, fields ...Field) Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	if _, ok := logger.(noopLogger); ok {
		return logger
	}
	if scoped, ok := logger.(scopedLogger); ok {
		merged := make([]Field, 0, len(scoped.fields)+len(fields))
		merged = append(merged, scoped.fields...)
		merged = append(merged, fields...)
		return scopedLogger{base: scoped.base, fields: merged}
	}
	return scopedLogger{base: logger, fields: append([]Field(nil), fields...)}
}

type scopedLogger struct {
	base   Logger
	fields []Field
}

func (l scopedLogger) merge(fields []Field) []Field {
	out := make([]Field, 0, len(l.fields)+len(fields))
	out = append(out, l.fields...)
	return append(out, fields...)
}

func (l scopedLogger) Debug(msg string, fields ...Field) { l.base.Debug(msg, l.merge(fields)...) }
func (l scopedLogger) Info(msg string, fields ...Field)  { l.base.Info(msg, l.merge(fields)...) }
func (l scopedLogger) Warn(msg string, fields ...Field)  { l.base.Warn(msg, l.merge(fields)...) }
func (l scopedLogger) Error(msg string, fields ...Field) { l.base.Error(msg, l.merge(fields)...) }

type noopLogger struct{}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Info(string, ...Field)  {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}
