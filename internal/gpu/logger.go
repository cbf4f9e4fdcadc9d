package gpu

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	SetLogger(nil)
}

// slogger returns the logger of the HAL pipeline.
func slogger() *slog.Logger { return logger.Load() }

// SetLogger replaces the HAL pipeline logger. Records are tagged with
// component=gpu. A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger.Store(slog.New(slog.DiscardHandler))
		return
	}
	logger.Store(l.With("component", "gpu"))
}
