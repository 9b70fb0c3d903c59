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
	Search(ctx context.Context, query string) error
	List(ctx context.Context) error
	SetFilters(ctx context.Context, args []string) error
	ClearFilters(ctx context.Context) error
	Filters(ctx context.Context) error
	Sync(ctx context.Context) error
	CheckUpdates(ctx context.Context) error
	Status(ctx context.Context) error
	Stats(ctx context.Context) error
	Team(ctx context.Context, manager string) error
	Show(ctx context.Context, id string) error
}

const helpText = `Available commands:
  (s)earch <text>       search by name, code, title, location, national id
  (l)ist                browse employees (active filters apply)
  filter key=value ...  set filters: location, brand, area, title
  clear                 remove all filters
  filters               show active filters and available values
  show <id>             show one employee
  team <manager name>   show a manager's team
  sync                  sync the local cache now
  updates               check whether the remote has changed
  status                show cache status
  stats                 show directory statistics
  exit | quit           leave the program`

// runREPL starts a simple read-eval-print loop for the directory CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
// Handlers print their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("staffdir %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "s", "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "l", "list":
			_ = a.List(ctx)

		case "filter":
			_ = a.SetFilters(ctx, args)

		case "clear":
			_ = a.ClearFilters(ctx)

		case "filters":
			_ = a.Filters(ctx)

		case "show":
			_ = a.Show(ctx, strings.Join(args, " "))

		case "team":
			_ = a.Team(ctx, strings.Join(args, " "))

		case "sync":
			_ = a.Sync(ctx)

		case "updates":
			_ = a.CheckUpdates(ctx)

		case "status":
			_ = a.Status(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
