// Package cli provides the interactive diary command-line client.
//
// The REPL is a thin view over internal/client/state: each command prompts
// for input, calls one state operation and prints the result. Feedback from
// the state layer arrives as toasts printed by ToastPrinter. Commands that
// touch entries are only available after login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
