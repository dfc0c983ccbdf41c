package platform

import (
	"context"
	"os"
	"os/signal"
)

// ShutdownSignals are the signals that trigger a graceful shutdown.
// Console apps on Windows only reliably receive os.Interrupt.
var ShutdownSignals = []os.Signal{os.Interrupt}

// NewShutdownContext returns a context canceled on Ctrl+C
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, ShutdownSignals...)
}
