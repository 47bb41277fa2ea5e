package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Chat(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	EditProfile(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the StudyBuddy CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands while signed out: help, register, login, exit.
// Commands while signed in: chat, open <id>, list [all], rename <id>,
// archive <id>, delete <id>, profile, whoami, logout, exit.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sb> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: chat, open <id>, list [all], rename <id>, archive <id>, delete <id>, profile, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "chat":
			_ = a.Chat(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <id>")
				continue
			}
			_ = a.Open(ctx, args)

		case "l", "list":
			_ = a.List(ctx, args)

		case "rename":
			if len(args) == 0 {
				printlnFn("Usage: rename <id>")
				continue
			}
			_ = a.Rename(ctx, args)

		case "archive":
			if len(args) == 0 {
				printlnFn("Usage: archive <id>")
				continue
			}
			_ = a.Archive(ctx, args)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args)

		case "profile":
			_ = a.EditProfile(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
