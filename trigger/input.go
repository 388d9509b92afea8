// Copyright (c) 2014 Square, Inc

package trigger

import (
	"bufio"
	"fmt"
	"io"

	"github.com/square/spv/core/errs"
	"github.com/square/spv/ctrl"
	"golang.org/x/term"
)

// InputListener reads raw keystrokes from a terminal in raw mode and
// normalizes them into ctrl.Key values, pushing one Event per recognized
// key onto the shared events channel. An unrecognized byte is dropped
// rather than forwarded as ctrl.KeyOther, keeping the channel free of
// no-op events.
type InputListener struct {
	events chan<- Event
	reader *bufio.Reader
}

// NewInputListener reads from r (os.Stdin in production, already switched
// to raw mode by the caller) and delivers recognized keys to events.
func NewInputListener(events chan<- Event, r io.Reader) *InputListener {
	return &InputListener{events: events, reader: bufio.NewReader(r)}
}

// EnterRawMode puts fd (typically os.Stdin.Fd()) into raw mode and returns a
// function that restores the previous terminal state; the caller is
// responsible for calling it before the process exits.
func EnterRawMode(fd int) (restore func(), err error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInput, err)
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// Listen blocks reading keystrokes until the reader is closed or an
// interrupt keystroke (Ctrl-C / Ctrl-D) is read, at which point it emits a
// single Exit event and returns.
func (l *InputListener) Listen() error {
	for {
		b, err := l.reader.ReadByte()
		if err != nil {
			if err == io.EOF {
				l.events <- Event{Kind: Exit}
				return nil
			}
			return fmt.Errorf("%w: %v", errs.ErrInput, err)
		}

		key, exit := l.decode(b)
		if exit {
			l.events <- Event{Kind: Exit}
			return nil
		}
		if key != ctrl.KeyOther {
			l.events <- Event{Kind: Input, Key: key}
		}
	}
}

func (l *InputListener) decode(b byte) (key ctrl.Key, exit bool) {
	switch b {
	case 0x03, 0x04: // Ctrl-C, Ctrl-D
		return ctrl.KeyOther, true
	case 'p', 'P':
		return ctrl.KeyP, false
	case 'n', 'N':
		return ctrl.KeyN, false
	case 'g', 'G':
		return ctrl.KeyG, false
	case 's', 'S':
		return ctrl.KeyS, false
	case '\r', '\n':
		return ctrl.KeyEnter, false
	case 0x1b: // ESC, possibly the start of a CSI arrow sequence
		return l.decodeEscape(), false
	default:
		return ctrl.KeyOther, false
	}
}

// decodeEscape consumes the remainder of a CSI arrow sequence (ESC [ A/B/C/D)
// if one follows. A byte other than '[' after ESC (which is consumed), or
// none at all, makes a lone Escape; ESC [ followed by any other byte is
// ctrl.KeyOther.
// A lone ESC with nothing queued behind it blocks here until the next byte
// arrives, since the reader has no way to distinguish "nothing more is
// coming" from "more is coming, slowly" on a raw terminal stream.
func (l *InputListener) decodeEscape() ctrl.Key {
	b1, err := l.reader.ReadByte()
	if err != nil || b1 != '[' {
		return ctrl.KeyEsc
	}
	b2, err := l.reader.ReadByte()
	if err != nil {
		return ctrl.KeyEsc
	}
	switch b2 {
	case 'A':
		return ctrl.KeyUp
	case 'B':
		return ctrl.KeyDown
	case 'C':
		return ctrl.KeyRight
	case 'D':
		return ctrl.KeyLeft
	default:
		return ctrl.KeyOther
	}
}
