// Copyright (c) 2014 Square, Inc

package trigger

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// SignalListener turns terminating and terminal-resize OS signals into
// Events on the shared channel.
type SignalListener struct {
	events chan<- Event
	sigs   chan os.Signal
}

// NewSignalListener subscribes to SIGINT, SIGTERM, SIGQUIT (all mapped to
// Exit) and SIGWINCH (mapped to Resize).
func NewSignalListener(events chan<- Event) *SignalListener {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGINT, unix.SIGTERM, unix.SIGQUIT, unix.SIGWINCH)
	return &SignalListener{events: events, sigs: sigs}
}

// Listen blocks relaying signals until a terminating signal is received, at
// which point it emits Exit and returns.
func (l *SignalListener) Listen() {
	for sig := range l.sigs {
		if sig == unix.SIGWINCH {
			l.events <- Event{Kind: Resize}
			continue
		}
		l.events <- Event{Kind: Exit}
		return
	}
}
