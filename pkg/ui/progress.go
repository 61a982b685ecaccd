package ui

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"
	"gopkg.in/cheggaaa/pb.v1"
)

// Progress is a per-container item counter. A nil or disabled Progress
// accepts every call and prints nothing.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a bar over total items when enabled
func NewProgress(title string, total int, enabled bool) *Progress {
	if !enabled || total <= 0 || IsQuiet() {
		return &Progress{}
	}

	bar := pb.New(total)
	bar.Output = Output()
	bar.ShowTimeLeft = false
	bar.ShowSpeed = false
	bar.ShowCounters = true
	bar.SetRefreshRate(200 * time.Millisecond)
	bar.SetMaxWidth(80)
	bar.Prefix(truncateTitle(title, 24) + " ")
	bar.Start()

	return &Progress{bar: bar}
}

// Increment advances the bar by one item
func (p *Progress) Increment() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Increment()
}

// Finish stops the bar and moves to the next line
func (p *Progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Finish()
	p.bar = nil
}

// Active reports whether a bar is being drawn
func (p *Progress) Active() bool {
	return p != nil && p.bar != nil
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func truncateTitle(title string, limit int) string {
	r := []rune(title)
	if len(r) <= limit {
		return title
	}
	return string(r[:limit-1]) + "…"
}
