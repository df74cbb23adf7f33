package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Theme(ctx context.Context, args []string) error
	Color(ctx context.Context, args []string) error
	Font(ctx context.Context, args []string) error
	Private(ctx context.Context, args []string) error
	Settings(ctx context.Context, args []string) error
	Moods(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
}

// errUsage is returned by handlers given malformed arguments.
var errUsage = errors.New("usage")

const (
	helpAnonymous = "Available commands: register, login, theme, color, font, settings, moods, help, exit"
	helpSignedIn  = "Available commands: (l)ist, search, show, new, edit, delete, theme, color, font, private, settings, moods, export, archive, logout, help, exit"
)

// gated lists commands that need a signed-in user.
var gated = map[string]bool{
	"l": true, "list": true, "search": true, "show": true, "new": true,
	"edit": true, "delete": true, "private": true, "export": true,
	"archive": true, "logout": true,
}

// runREPL starts a simple read-eval-print loop for the diary CLI.
//
// It reads a line, parses the first token as the command and the rest as
// its arguments, and dispatches to methods on a. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Handler errors other than usage errors are ignored here; handlers report
// their own failures through toasts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("diary %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if gated[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (commands: register, login)")
			continue
		}

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue

		case "register":
			handler = a.Register
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout

		case "l", "list":
			handler = a.List
		case "search":
			handler = a.Search
		case "show":
			handler = a.Show
		case "new":
			handler = a.New
		case "edit":
			handler = a.Edit
		case "delete":
			handler = a.Delete

		case "theme":
			handler = a.Theme
		case "color":
			handler = a.Color
		case "font":
			handler = a.Font
		case "private":
			handler = a.Private
		case "settings":
			handler = a.Settings
		case "moods":
			handler = a.Moods

		case "export":
			handler = a.Export
		case "archive":
			handler = a.Archive

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd, "(type 'help' for the list)")
			continue
		}

		var usage *usageError
		if err := handler(ctx, args); errors.As(err, &usage) {
			printlnFn("Usage:", usage.text)
		}
	}
}

type usageError struct{ text string }

func (e *usageError) Error() string { return "usage: " + e.text }

func (e *usageError) Unwrap() error { return errUsage }

func usagef(format string, args ...any) error {
	return &usageError{text: fmt.Sprintf(format, args...)}
}
