package tuner

import (
	"bufio"
	"os"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"
)

// TerminalInput reads single keystrokes from a terminal in raw mode. Close
// restores the terminal; forgetting to leaves the shell in raw mode.
type TerminalInput struct {
	fd    int
	saved *term.State
	buf   []byte
}

// NewTerminalInput puts stdin into raw mode.
func NewTerminalInput() (*TerminalInput, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, pkgerrors.New("stdin is not a terminal")
	}
	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to enter raw mode")
	}
	return &TerminalInput{fd: fd, saved: saved, buf: make([]byte, 1)}, nil
}

// ReadKey blocks for one keystroke.
func (t *TerminalInput) ReadKey() (byte, error) {
	if _, err := os.Stdin.Read(t.buf); err != nil {
		return 0, err
	}
	return t.buf[0], nil
}

// ReadLine temporarily restores cooked mode so the user gets echo and line
// editing, reads one line, then returns to raw mode.
func (t *TerminalInput) ReadLine() (string, error) {
	if err := term.Restore(t.fd, t.saved); err != nil {
		return "", pkgerrors.Wrap(err, "failed to leave raw mode")
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if rawErr := t.reRaw(); rawErr != nil {
		return "", rawErr
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (t *TerminalInput) reRaw() error {
	saved, err := term.MakeRaw(t.fd)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to re-enter raw mode")
	}
	t.saved = saved
	return nil
}

// Close restores the terminal to its pre-session state.
func (t *TerminalInput) Close() error {
	return term.Restore(t.fd, t.saved)
}
