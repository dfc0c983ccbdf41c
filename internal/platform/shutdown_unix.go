//go:build !windows

package platform

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals are the signals that trigger a graceful shutdown
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NewShutdownContext returns a context canceled on SIGINT or SIGTERM
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, ShutdownSignals...)
}
