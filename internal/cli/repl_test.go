package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/starkeeper/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) List(_ context.Context, args []string) error   { return f.record("list", args) }
func (f *fakeExec) Show(_ context.Context, args []string) error   { return f.record("show", args) }
func (f *fakeExec) Add(context.Context) error                     { return f.record("add", nil) }
func (f *fakeExec) Edit(_ context.Context, args []string) error   { return f.record("edit", args) }
func (f *fakeExec) Delete(_ context.Context, args []string) error { return f.record("delete", args) }
func (f *fakeExec) Purge(_ context.Context, args []string) error  { return f.record("purge", args) }
func (f *fakeExec) Stats(context.Context) error                   { return f.record("stats", nil) }
func (f *fakeExec) Status(context.Context) error                  { return f.record("status", nil) }
func (f *fakeExec) AwardXP(_ context.Context, args []string) error {
	return f.record("xp", args)
}
func (f *fakeExec) RemoveLog(_ context.Context, args []string) error {
	return f.record("rmlog", args)
}

func runLines(exec execIface, lines ...string) string {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "local mode" }, in, &out)
	return out.String()
}

func TestRunREPL_Dispatch(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(exec,
		"help",
		"l",
		"list recent",
		"show abc",
		"add",
		"",
		"edit abc",
		"xp abc 5 great show",
		"rmlog abc log-1",
		"rm abc",
		"purge a b",
		"stats",
		"status",
		"foobar",
		"exit",
		"list",
	)

	assert.Equal(t, []string{
		"list", "list", "show", "add", "edit", "xp", "rmlog", "delete", "purge", "stats", "status",
	}, exec.calls)
	assert.Equal(t, []string{"recent"}, exec.args[1])
	assert.Equal(t, []string{"abc", "5", "great", "show"}, exec.args[5])
	assert.Equal(t, []string{"a", "b"}, exec.args[8])

	assert.Contains(t, out, "Available commands:")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "sk (local mode)> ")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(exec, "stats")

	assert.Equal(t, []string{"stats"}, exec.calls)
	assert.NotContains(t, out, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	exec := &fakeExec{err: &storage.Error{Kind: storage.KindNetwork, Op: "read", Err: errors.New("dial tcp")}}
	out := runLines(exec, "list", "stats", "exit")

	assert.Equal(t, []string{"list", "stats"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "Error: Could not reach the cloud."))
}

func TestPrintError_Usage(t *testing.T) {
	var out bytes.Buffer
	printError(&out, usageError("xp <id> <amount> [note]"))
	assert.Equal(t, "Usage: xp <id> <amount> [note]\n", out.String())
}
