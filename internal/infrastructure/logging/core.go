package logging

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
)

// RootName is reported as the logger name for unnamed loggers.
const RootName = "root"

// LevelName maps a zap level to the level name written to log lines.
func LevelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return "CRITICAL"
	default:
		return l.CapitalString()
	}
}

type recordCore struct {
	zapcore.LevelEnabler
	formatter *JSONFormatter
	out       zapcore.WriteSyncer
	fields    []zapcore.Field
}

// NewCore returns a zapcore.Core that renders every entry with formatter and
// writes it to out as a single line.
func NewCore(formatter *JSONFormatter, out zapcore.WriteSyncer, enab zapcore.LevelEnabler) zapcore.Core {
	return &recordCore{
		LevelEnabler: enab,
		formatter:    formatter,
		out:          out,
	}
}

func (c *recordCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

func (c *recordCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *recordCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	rec := Record{
		Level:     LevelName(ent.Level),
		Message:   ent.Message,
		Created:   ent.Time,
		Logger:    ent.LoggerName,
		StackInfo: ent.Stack,
	}
	if rec.Logger == "" {
		rec.Logger = RootName
	}
	if ent.Caller.Defined {
		rec.Module = strings.TrimSuffix(filepath.Base(ent.Caller.File), ".go")
		rec.Function = ent.Caller.Function
		rec.Line = ent.Caller.Line
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, group := range [][]zapcore.Field{c.fields, fields} {
		for _, f := range group {
			if f.Type == zapcore.ErrorType && rec.Err == nil {
				if err, ok := f.Interface.(error); ok {
					rec.Err = err
					continue
				}
			}
			f.AddTo(enc)
		}
	}
	if len(enc.Fields) > 0 {
		rec.Fields = enc.Fields
	}

	line := c.formatter.Format(rec)
	line = append(line, '\n')
	if _, err := c.out.Write(line); err != nil {
		return err
	}
	if ent.Level > zapcore.ErrorLevel {
		return c.Sync()
	}
	return nil
}

func (c *recordCore) Sync() error {
	return c.out.Sync()
}
