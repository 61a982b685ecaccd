package ui

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows activity while waiting on the network
type Spinner struct {
	s *spinner.Spinner
}

// StartSpinner starts a spinner with msg when enabled. The returned value
// is always safe to Stop.
func StartSpinner(msg string, enabled bool) *Spinner {
	if !enabled || IsQuiet() {
		return &Spinner{}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(Output()))
	s.Suffix = " " + msg
	s.Start()
	return &Spinner{s: s}
}

// Stop clears the spinner line
func (s *Spinner) Stop() {
	if s == nil || s.s == nil {
		return
	}
	s.s.Stop()
	s.s = nil
}
