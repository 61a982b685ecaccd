package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"igsaver/pkg/ui"
)

// Prompts
const (
	PromptUsername = "Instagram username: "
	PromptPassword = "Password for %s: "
	PromptCode     = "Enter 2FA code: "
)

// Prompter asks the user for login input and shows progress messages
type Prompter interface {
	Username() (string, error)
	Password(username string) (string, error)
	TwoFactorCode() (string, error)

	Notice(title string, lines ...string)
	Info(msg string)
	Success(msg string)
	Warning(msg string)
}

// TerminalPrompter reads from a terminal. Passwords are read without echo
// when the input is a TTY.
type TerminalPrompter struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter creates a prompter over stdin and stdout
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:     os.Stdin,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

// Prompts are written even in quiet mode, the user has to see what is
// being asked.
func (p *TerminalPrompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) askHidden(prompt string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.ask(prompt)
	}

	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Username asks for the account to log in with
func (p *TerminalPrompter) Username() (string, error) {
	return p.ask(PromptUsername)
}

// Password asks for the password without echo
func (p *TerminalPrompter) Password(username string) (string, error) {
	return p.askHidden(fmt.Sprintf(PromptPassword, username))
}

// TwoFactorCode asks for the one-time code
func (p *TerminalPrompter) TwoFactorCode() (string, error) {
	return p.ask(PromptCode)
}

// Notice prints a framed block of text
func (p *TerminalPrompter) Notice(title string, lines ...string) {
	ui.Println()
	ui.PrintHeader(title)
	for _, line := range lines {
		ui.PrintInfo(line)
	}
	ui.PrintSeparator()
	ui.Println()
}

func (p *TerminalPrompter) Info(msg string) { ui.PrintInfo(msg) }
func (p *TerminalPrompter) Success(msg string) { ui.PrintSuccess(msg) }
func (p *TerminalPrompter) Warning(msg string) { ui.PrintWarning(msg) }
