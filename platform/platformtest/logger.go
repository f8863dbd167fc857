// Package platformtest provides fake managers and logging helpers for
// testing applications built on the platform runtime.
package platformtest

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewTestLogger builds a console logger at debug level, suitable for
// watching every drop, warn, and lifecycle line a test run produces.
func NewTestLogger() *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.DebugLevel,
	)
	return zap.New(consoleCore)
}
