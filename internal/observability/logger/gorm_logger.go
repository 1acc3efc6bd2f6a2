package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
}

// DefaultGormLoggerConfig returns production-safe defaults.
func DefaultGormLoggerConfig(debug bool) GormLoggerConfig {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return GormLoggerConfig{
		Level:                level,
		SlowThreshold:        200 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
}

// GormLogger implements gormlogger.Interface on top of zap.
type GormLogger struct {
	base                 *zap.Logger
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
}

func NewGormLogger(base *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &GormLogger{
		base:                 base.Named("gorm"),
		level:                cfg.Level,
		slowThreshold:        cfg.SlowThreshold,
		ignoreRecordNotFound: cfg.IgnoreRecordNotFound,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copy := *l
	copy.level = level
	return &copy
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Info {
		return
	}
	WithContext(ctx, l.base).Info(msg, zap.Any("data", data))
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Warn {
		return
	}
	WithContext(ctx, l.base).Warn(msg, zap.Any("data", data))
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Error {
		return
	}
	WithContext(ctx, l.base).Error(msg, zap.Any("data", data))
}

// Trace logs failed statements at error, slow ones at warn and, in
// info mode, everything else at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !(l.ignoreRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	var level zapcore.Level
	switch {
	case failed && l.level >= gormlogger.Error:
		level = zapcore.ErrorLevel
	case slow && l.level >= gormlogger.Warn:
		level, err = zapcore.WarnLevel, nil
	case l.level >= gormlogger.Info:
		level, err = zapcore.DebugLevel, nil
	default:
		return
	}

	ce := WithContext(ctx, l.base).Check(level, "sql")
	if ce == nil {
		return
	}
	sql, rows := fc()
	stmt := describeSQL(sql)
	fields := []zap.Field{
		zap.String("op", stmt.op),
		zap.String("table", stmt.table),
		zap.Duration("elapsed", elapsed),
		zap.Bool("slow", slow),
		zap.String("statement", strings.Join(strings.Fields(sql), " ")),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

// ParamsFilter drops bound values; inspection rows carry operator names.
func (l *GormLogger) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}

type statement struct {
	op    string
	table string
}

// describeSQL extracts the verb and the first table a statement touches.
func describeSQL(sql string) statement {
	tokens := strings.Fields(strings.ToUpper(sql))
	st := statement{op: "OTHER", table: "-"}
	for i, tok := range tokens {
		tok = strings.Trim(tok, "();")
		if st.op == "OTHER" {
			switch tok {
			case "SELECT", "INSERT", "UPDATE", "DELETE":
				st.op = tok
				if tok == "UPDATE" && i+1 < len(tokens) {
					st.table = tableName(tokens[i+1])
					return st
				}
			}
			continue
		}
		if (tok == "FROM" || tok == "INTO") && i+1 < len(tokens) {
			st.table = tableName(tokens[i+1])
			return st
		}
	}
	return st
}

func tableName(tok string) string {
	return strings.ToLower(strings.Trim(tok, "`\"();,"))
}

var _ gormlogger.Interface = (*GormLogger)(nil)
