package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Confirm(ctx context.Context) error
	Logout(ctx context.Context) error
	Show(ctx context.Context) error
	Set(ctx context.Context, field, value string) error
	Save(ctx context.Context) error
	Avatar(ctx context.Context) error
	Foreground()
	Background()
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Command handlers report their own errors; the loop stays resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ps> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: show, set username|website <value>, save, avatar, logout, fg, bg, exit")
			} else {
				printlnFn("Available commands: register, login, confirm, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "confirm":
			_ = a.Confirm(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "show":
			_ = a.Show(ctx)
		case "set":
			if len(parts) < 3 {
				printlnFn("usage: set username|website <value>")
				continue
			}
			_ = a.Set(ctx, parts[1], strings.Join(parts[2:], " "))
		case "save":
			_ = a.Save(ctx)
		case "avatar":
			_ = a.Avatar(ctx)
		case "fg":
			a.Foreground()
		case "bg":
			a.Background()
		case "exit", "quit":
			return
		default:
			printlnFn(fmt.Sprintf("unknown command: %s (try 'help')", cmd))
		}
	}
}
