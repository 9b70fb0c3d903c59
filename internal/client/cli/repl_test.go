package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeExec) Search(ctx context.Context, query string) error {
	return f.record("search:" + query)
}

func (f *fakeExec) List(ctx context.Context) error {
	return f.record("list")
}

func (f *fakeExec) SetFilters(ctx context.Context, args []string) error {
	return f.record("filter:" + strings.Join(args, ","))
}

func (f *fakeExec) ClearFilters(ctx context.Context) error {
	return f.record("clear")
}

func (f *fakeExec) Filters(ctx context.Context) error {
	return f.record("filters")
}

func (f *fakeExec) Sync(ctx context.Context) error {
	return f.record("sync")
}

func (f *fakeExec) CheckUpdates(ctx context.Context) error {
	return f.record("updates")
}

func (f *fakeExec) Status(ctx context.Context) error {
	return f.record("status")
}

func (f *fakeExec) Stats(ctx context.Context) error {
	return f.record("stats")
}

func (f *fakeExec) Team(ctx context.Context, manager string) error {
	return f.record("team:" + manager)
}

func (f *fakeExec) Show(ctx context.Context, id string) error {
	return f.record("show:" + id)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for _, v := range a {
			if s, ok := v.(string); ok {
				printed = append(printed, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"search josé pérez",
		"s maria",
		"",
		"l",
		"filter location=Quito brand=KFC",
		"filters",
		"clear",
		"show rec1",
		"team Pedro José Andrade",
		"sync",
		"updates",
		"status",
		"stats",
		"foobar",
		"exit",
		"sync",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(3)" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"search:josé pérez",
		"search:maria",
		"list",
		"filter:location=Quito,brand=KFC",
		"filters",
		"clear",
		"show:rec1",
		"team:Pedro José Andrade",
		"sync",
		"updates",
		"status",
		"stats",
	}, exec.calls)

	assert.Contains(t, printed, helpText)
	assert.Contains(t, printed, "Unknown command:")
	assert.Contains(t, printed, "Bye!")
	assert.Contains(t, printed, "staffdir (3) > ")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("sync")))
	assert.Equal(t, []string{"sync"}, exec.calls)
}
