package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Banner is printed at the top of a run
const Banner = "Instagram Highlights Backup Tool"

const separatorLength = 50

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	quiet   bool
	noColor bool
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		plain := noColor
		mu.Unlock()
		if plain {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects console output. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Output returns the current console writer
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

// SetQuietMode suppresses everything but errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuiet reports whether quiet mode is on
func IsQuiet() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

// SetNoColor disables ANSI colors
func SetNoColor(n bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = n
}

func write(force bool, s string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && !force {
		return
	}
	fmt.Fprint(out, s)
}

// Println prints a plain line unless quiet
func Println(a ...interface{}) {
	write(false, fmt.Sprintln(a...))
}

// Printf prints formatted text unless quiet
func Printf(format string, a ...interface{}) {
	write(false, fmt.Sprintf(format, a...))
}

// PrintSeparator prints a line of '='
func PrintSeparator() {
	Println(strings.Repeat("=", separatorLength))
}

// PrintHeader prints a title framed by separators
func PrintHeader(title string) {
	PrintSeparator()
	Println(Cyan(title))
	PrintSeparator()
}

// PrintError prints an error message in red. Errors are shown in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 && fmt.Sprint(args[0]) != "" {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	write(true, Red("✗ Error: "+msg)+"\n")
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	Println(Green("✓ " + msg))
}

// PrintInfo prints an informational line
func PrintInfo(msg string) {
	Println(msg)
}

// PrintField prints a label and a value
func PrintField(label string, value string) {
	Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	Println(Yellow("⚠  " + msg))
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	Println(Magenta(msg))
}
