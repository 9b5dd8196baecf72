package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Confirm(ctx context.Context) error  { return s.record("confirm") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }
func (s *stubExec) Show(ctx context.Context) error     { return s.record("show") }
func (s *stubExec) Set(ctx context.Context, field, value string) error {
	return s.record("set " + field + "=" + value)
}
func (s *stubExec) Save(ctx context.Context) error   { return s.record("save") }
func (s *stubExec) Avatar(ctx context.Context) error { return s.record("avatar") }
func (s *stubExec) Foreground()                      { _ = s.record("fg") }
func (s *stubExec) Background()                      { _ = s.record("bg") }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				lines = append(lines, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func runWithInput(t *testing.T, exec execIface, input string) {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), exec, func() string { return "test" }, scanner)
}

func TestREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)
	exec := &stubExec{loggedIn: true}

	runWithInput(t, exec, "show\nset username alice smith\nsave\navatar\nbg\nfg\nlogout\nexit\n")

	require.Equal(t, []string{
		"show", "set username=alice smith", "save", "avatar", "bg", "fg", "logout",
	}, exec.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := captureOutput(t)
	runWithInput(t, &stubExec{}, "frobnicate\nexit\n")

	joined := strings.Join(*out, "\n")
	require.Contains(t, joined, "unknown command: frobnicate")
}

func TestREPL_HelpVariesWithLoginState(t *testing.T) {
	out := captureOutput(t)
	runWithInput(t, &stubExec{loggedIn: false}, "help\nexit\n")
	require.Contains(t, strings.Join(*out, "\n"), "register, login, confirm")

	out2 := captureOutput(t)
	runWithInput(t, &stubExec{loggedIn: true}, "help\nexit\n")
	require.Contains(t, strings.Join(*out2, "\n"), "avatar")
}

func TestREPL_SetRequiresValue(t *testing.T) {
	out := captureOutput(t)
	exec := &stubExec{loggedIn: true}
	runWithInput(t, exec, "set username\nexit\n")

	require.Empty(t, exec.calls)
	require.Contains(t, strings.Join(*out, "\n"), "usage: set")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	captureOutput(t)
	runWithInput(t, &stubExec{}, "")
}
