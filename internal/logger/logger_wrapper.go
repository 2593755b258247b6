// Package logger provides the zap-backed implementation of the
// contracts.Logger interface.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/msveshnikov/midi-player/sdk/contracts"
)

// levelMap translates contract levels to zap levels.
var levelMap = map[contracts.LogLevel]zapcore.Level{
	contracts.DebugLevel: zapcore.DebugLevel,
	contracts.InfoLevel:  zapcore.InfoLevel,
	contracts.WarnLevel:  zapcore.WarnLevel,
	contracts.ErrorLevel: zapcore.ErrorLevel,
	contracts.FatalLevel: zapcore.FatalLevel,
}

// ZapLogger implements the Logger contract on top of Uber's zap.
type ZapLogger struct {
	logger *zap.Logger
	level  contracts.LogLevel
}

// NewZapLogger creates the default production logger.
func NewZapLogger() contracts.Logger {
	logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	return &ZapLogger{logger: logger, level: contracts.InfoLevel}
}

// NewNopLogger creates a logger that discards everything. Useful in tests.
func NewNopLogger() contracts.Logger {
	return &ZapLogger{logger: zap.NewNop(), level: contracts.FatalLevel}
}

// Debug logs a message at the DEBUG level.
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(contracts.DebugLevel, msg, fields...)
}

// Info logs a message at the INFO level.
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(contracts.InfoLevel, msg, fields...)
}

// Warn logs a message at the WARN level.
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(contracts.WarnLevel, msg, fields...)
}

// Error logs a message at the ERROR level.
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(contracts.ErrorLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application.
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(contracts.FatalLevel, msg, fields...)
	os.Exit(1)
}

// Field returns a new field builder.
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// SetLevel sets the minimum level that will be logged.
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level = level
}

func (z *ZapLogger) log(level contracts.LogLevel, msg string, fields ...contracts.Field) {
	if levelMap[level] < levelMap[z.level] {
		return
	}
	zfields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if zf, ok := f.(zapField); ok {
			zfields = append(zfields, zf.field)
		}
	}
	if ce := z.logger.Check(levelMap[level], msg); ce != nil {
		ce.Write(zfields...)
	}
}

// zapField implements contracts.Field; every builder call yields a field
// holding exactly one zap.Field.
type zapField struct {
	field zap.Field
}

func (zapField) Bool(key string, val bool) contracts.Field {
	return zapField{zap.Bool(key, val)}
}

func (zapField) Int(key string, val int) contracts.Field {
	return zapField{zap.Int(key, val)}
}

func (zapField) Float64(key string, val float64) contracts.Field {
	return zapField{zap.Float64(key, val)}
}

func (zapField) String(key string, val string) contracts.Field {
	return zapField{zap.String(key, val)}
}

func (zapField) Time(key string, val time.Time) contracts.Field {
	return zapField{zap.Time(key, val)}
}

func (zapField) Duration(key string, val time.Duration) contracts.Field {
	return zapField{zap.Duration(key, val)}
}

func (zapField) Error(key string, val error) contracts.Field {
	return zapField{zap.NamedError(key, val)}
}

func (zapField) Uint8(key string, val uint8) contracts.Field {
	return zapField{zap.Uint8(key, val)}
}
