package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// spinner shows a loading animation while a request is in flight.
type spinner struct {
	out     io.Writer
	message string
	done    chan struct{}
	stopped chan struct{}
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation on its own goroutine.
func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		yellow := color.New(color.FgYellow)
		for {
			select {
			case <-s.done:
				// Clear the spinner line.
				_, _ = fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
				return
			case <-ticker.C:
				_, _ = yellow.Fprintf(s.out, "\r%s %c ", s.message, spinnerFrames[frame])
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// Stop ends the animation and waits for the line to be cleared.
func (s *spinner) Stop() {
	close(s.done)
	<-s.stopped
}
