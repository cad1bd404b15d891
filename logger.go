package fits

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/fits/hdu"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the fits package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the fits and hdu package loggers.
// This must be called before any parsing.
func SetLogger(l *zap.Logger) {
	logger = l
	hdu.SetLogger(l)
}
