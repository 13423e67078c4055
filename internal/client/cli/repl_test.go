package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) record(s string) error {
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeExec) Songs(ctx context.Context) error              { return f.record("songs") }
func (f *fakeExec) Song(ctx context.Context, id string) error    { return f.record("song " + id) }
func (f *fakeExec) Count(ctx context.Context) error              { return f.record("count") }
func (f *fakeExec) Search(ctx context.Context, p string) error   { return f.record("search " + p) }
func (f *fakeExec) Lang(ctx context.Context, c string) error     { return f.record("lang " + c) }
func (f *fakeExec) Favorites(ctx context.Context) error          { return f.record("favs") }
func (f *fakeExec) Queue(ctx context.Context) error              { return f.record("queue") }
func (f *fakeExec) Conflicts(ctx context.Context) error          { return f.record("conflicts") }
func (f *fakeExec) Resolve(ctx context.Context, id string) error { return f.record("resolve " + id) }
func (f *fakeExec) Sync(ctx context.Context) error               { return f.record("sync") }
func (f *fakeExec) Clear(ctx context.Context) error              { return f.record("clear") }
func (f *fakeExec) Status(ctx context.Context) error             { return f.record("status") }
func (f *fakeExec) Favorite(ctx context.Context, id string, fav bool) error {
	return f.record(fmt.Sprintf("fav %s %t", id, fav))
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"songs",
		"song 42",
		"count",
		"search Amazing Grace",
		"lang en",
		"fav 42",
		"unfav 42",
		"favs",
		"",
		"queue",
		"conflicts",
		"resolve 42",
		"sync",
		"clear",
		"status",
		"exit",
		"songs",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"songs", "song 42", "count", "search Amazing Grace", "lang en",
		"fav 42 true", "fav 42 false", "favs", "queue", "conflicts",
		"resolve 42", "sync", "clear", "status",
	}, exec.calls)
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader("song\nfav\nresolve\nlang\nsearch\nfoobar\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: song <id>")
	assert.Contains(t, joined, "Usage: fav <id>")
	assert.Contains(t, joined, "Unknown command:foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("count\nsync\n")))

	require.Equal(t, []string{"count", "sync"}, exec.calls)
	assert.Contains(t, strings.Join(*out, "\n"), "Error:boom")
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("count\n")))
	assert.Empty(t, exec.calls)
}
