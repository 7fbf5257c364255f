// Package logger configures the process-wide structured logger: JSON
// lines to a size-rotated file plus the console. Call Init once from
// main before any other package logs.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the shared application logger. It defaults to a no-op logger so
// packages can log safely even if Init was never called (tests).
var L = zap.NewNop()

// Init builds the production logger writing to logs/app.log with
// rotation and mirroring to stderr, then installs it as L.
func Init() {
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "./logs/app.log",
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, fileSink, zap.InfoLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zap.InfoLevel),
	)
	L = zap.New(core, zap.AddCaller())
}

// Sync flushes buffered log entries. Safe to defer from main.
func Sync() {
	_ = L.Sync()
}
