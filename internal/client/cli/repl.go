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
	Projects(ctx context.Context) error
	Send(ctx context.Context, projectID string) error
	Watch(ctx context.Context, projectID string) error
	Photo(ctx context.Context, projectID string) error
	View(ctx context.Context, projectID string) error
	Delete(ctx context.Context) error
	Unread(ctx context.Context) error
	Read(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the TeamBridge CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current organization (from statusFn) and accepts:
//
//   - help               — show available commands
//   - projects | p       — list projects in the organization
//   - send <project>     — compose and send a message
//   - watch <project>    — stream the project chat live until Enter
//   - photo <project>    — upload an image and post it as a photo message
//   - view <project>     — download a photo message to the downloads dir
//   - delete             — delete a message by id (interactive prompt)
//   - unread             — show whether the organization has unread messages
//   - read               — mark the organization as read
//   - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tb> %s > ", statusFn()))
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
			printlnFn("Available commands: (p)rojects, send <project>, watch <project>, photo <project>, view <project>, delete, unread, read, exit")

		case "p", "projects":
			_ = a.Projects(ctx)

		case "send":
			if len(args) == 0 {
				printlnFn("Usage: send <project-id>")
				continue
			}
			_ = a.Send(ctx, args[0])

		case "watch":
			if len(args) == 0 {
				printlnFn("Usage: watch <project-id>")
				continue
			}
			_ = a.Watch(ctx, args[0])

		case "photo":
			if len(args) == 0 {
				printlnFn("Usage: photo <project-id>")
				continue
			}
			_ = a.Photo(ctx, args[0])

		case "view":
			if len(args) == 0 {
				printlnFn("Usage: view <project-id>")
				continue
			}
			_ = a.View(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx)

		case "unread":
			_ = a.Unread(ctx)

		case "read":
			_ = a.Read(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
