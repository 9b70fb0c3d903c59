package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
)

var errUsage = errors.New("usage")

func (a *App) Search(ctx context.Context, query string) error {
	res, err := a.dir.Search(ctx, query, a.filters)
	if err != nil {
		a.reportError(err)
		return err
	}

	if len(res.Employees) == 0 {
		fmt.Fprintln(a.out, "No employees found.")
		return nil
	}

	printEmployees(a.out, res.Employees, terminalWidth())
	fmt.Fprintf(a.out, "%d result(s) from %s in %s\n", len(res.Employees), res.Source, res.Took.Round(100*time.Microsecond))
	return nil
}

func (a *App) List(ctx context.Context) error {
	return a.Search(ctx, "")
}

// SetFilters parses key=value pairs into the active filters. An empty value
// removes that filter.
func (a *App) SetFilters(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: filter key=value ... (keys: location, brand, area, title)")
		return errUsage
	}

	next := a.filters
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(a.out, "Invalid filter %q, expected key=value\n", arg)
			return errUsage
		}
		value = strings.ReplaceAll(value, "_", " ")

		switch strings.ToLower(key) {
		case "location":
			next.Location = value
		case "brand":
			next.Brand = value
		case "area":
			next.Area = value
		case "title":
			next.Title = value
		default:
			fmt.Fprintf(a.out, "Unknown filter %q\n", key)
			return errUsage
		}
	}

	a.filters = next
	printActiveFilters(a.out, a.filters)
	return nil
}

func (a *App) ClearFilters(ctx context.Context) error {
	a.filters = models.Filters{}
	fmt.Fprintln(a.out, "Filters cleared.")
	return nil
}

func (a *App) Filters(ctx context.Context) error {
	printActiveFilters(a.out, a.filters)

	opts, err := a.dir.FilterOptions(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	printFilterOptions(a.out, opts)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		var err error
		if id, err = GetSimpleText(a.reader, "Enter employee ID", a.out); err != nil || id == "" {
			return errUsage
		}
	}

	e, err := a.dir.Employee(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}
	printEmployee(a.out, e)
	return nil
}

func (a *App) Team(ctx context.Context, manager string) error {
	manager = strings.TrimSpace(manager)
	if manager == "" {
		fmt.Fprintln(a.out, "Usage: team <manager name>")
		return errUsage
	}

	team, err := a.dir.Team(ctx, manager)
	if err != nil {
		a.reportError(err)
		return err
	}

	if team.Manager != nil {
		fmt.Fprintf(a.out, "%s, %s (%s)\n", team.Manager.Name, team.Manager.Title, team.Manager.Location)
	} else {
		fmt.Fprintf(a.out, "%s (not in the directory)\n", team.ManagerName)
	}
	if len(team.Members) == 0 {
		fmt.Fprintln(a.out, "No direct reports.")
		return nil
	}
	printEmployees(a.out, team.Members, terminalWidth())
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	fmt.Fprintln(a.out, "Syncing...")
	res := a.dir.SyncNow(ctx)
	fmt.Fprintln(a.out, res.Message)

	if !res.Success {
		return errors.New(res.Message)
	}
	a.updates.Store(false)
	if res.RemovedRecords > 0 {
		fmt.Fprintf(a.out, "%d employee(s) no longer active were removed.\n", res.RemovedRecords)
	}
	return nil
}

func (a *App) CheckUpdates(ctx context.Context) error {
	available := a.dir.CheckForUpdates(ctx)
	a.updates.Store(available)
	if available {
		fmt.Fprintln(a.out, "Updates are available, type 'sync' to fetch them.")
	} else {
		fmt.Fprintln(a.out, "No updates detected.")
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st, err := a.dir.Status(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "Mode:        %s\n", a.Mode)
	fmt.Fprintf(a.out, "Employees:   %d\n", st.Records)
	fmt.Fprintf(a.out, "Last sync:   %s\n", st.SinceLastSync)
	fmt.Fprintf(a.out, "Updates:     %t\n", st.UpdatesAvailable || a.updates.Load())
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.dir.Stats(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	printStats(a.out, st)
	return nil
}

func (a *App) reportError(err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(a.out, "Not found.")
	case errors.Is(err, common.ErrStorage):
		fmt.Fprintf(a.out, "The local cache is unavailable (%v). Remove %s and sync again if this persists.\n", err, a.config.DatabasePath)
	case errors.Is(err, common.ErrTransport):
		fmt.Fprintln(a.out, "Could not reach the directory service. Check your connection.")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}
