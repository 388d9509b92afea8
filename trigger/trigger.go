// Copyright (c) 2014 Square, Inc

package trigger

import (
	"io"
	"log"
	"time"

	"github.com/square/spv/ctrl"
)

// Kind identifies why an Event was raised.
type Kind int

const (
	// Impulse is raised once per pulse period; it drives one collect +
	// render iteration.
	Impulse Kind = iota
	// Input is raised for a recognized keystroke; Event.Key carries it.
	Input
	// Resize is raised on SIGWINCH, when the terminal has been resized.
	Resize
	// Exit is raised on Ctrl-C/Ctrl-D, a terminating signal, or EOF on
	// stdin; it asks the main loop to shut down.
	Exit
)

// Event is one item flowing out of the trigger loop's single channel.
type Event struct {
	Kind Kind
	Key  ctrl.Key
}

// Loop is a single-consumer, multi-producer event stream that fans in a
// Pulse, a keyboard InputListener and a SignalListener into one channel, so
// the application's main loop never needs to select across several sources.
type Loop struct {
	events chan Event
}

// NewLoop starts the three producers as goroutines and returns a Loop whose
// Events channel they all feed. input may be nil to skip keyboard input
// entirely (e.g. in batch mode, where stdin is never read); otherwise it is
// wrapped in an InputListener sharing this Loop's own event channel.
func NewLoop(period time.Duration, input io.Reader) *Loop {
	l := &Loop{events: make(chan Event)}

	go l.runPulse(period)
	go l.runSignals()
	if input != nil {
		go l.runInput(NewInputListener(l.events, input))
	}

	return l
}

// Events returns the channel the main loop should range over.
func (l *Loop) Events() <-chan Event { return l.events }

func (l *Loop) runPulse(period time.Duration) {
	pulse := NewPulse(period)
	for {
		pulse.Wait()
		l.events <- Event{Kind: Impulse}
	}
}

func (l *Loop) runSignals() {
	NewSignalListener(l.events).Listen()
}

func (l *Loop) runInput(input *InputListener) {
	if err := input.Listen(); err != nil {
		log.Printf("input trigger stopped: %v", err)
		l.events <- Event{Kind: Exit}
	}
}
