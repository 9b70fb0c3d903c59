package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
)

const defaultWidth = 100

// terminalWidth is a test seam for term.GetSize on stdout.
var terminalWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// printEmployees renders a table sized to width. The name and title columns
// share the space left over by the fixed columns.
func printEmployees(w io.Writer, items []models.Employee, width int) {
	const fixed = 10 + 14 + 14 + 8
	flex := max(width-fixed, 30)
	nameW, titleW := flex*3/5, flex*2/5

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tTITLE\tLOCATION\tPHONE")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Code, clip(e.Name, nameW), clip(e.Title, titleW), clip(e.Location, 14), e.Phone)
	}
	_ = tw.Flush()
}

func printEmployee(w io.Writer, e models.Employee) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}

	row("Name", e.Name)
	row("ID", e.ID)
	row("Code", e.Code)
	row("Title", e.Title)
	row("Area", e.Area)
	row("Sector", e.Sector)
	row("Location", e.Location)
	row("Brand", e.Brand)
	row("Company", e.Company)
	row("Manager", e.Manager)
	row("Phone", e.Phone)
	row("Corporate phone", e.CorporatePhone)
	row("Email", e.Email)
	row("Stage", e.Stage)
	row("Worker type", e.WorkerType)
	row("Hire date", e.HireDate)
	if e.TenureMonths != nil {
		row("Tenure", fmt.Sprintf("%d months", *e.TenureMonths))
	}
	_ = tw.Flush()
}

func printActiveFilters(w io.Writer, f models.Filters) {
	if f.IsEmpty() {
		fmt.Fprintln(w, "No active filters.")
		return
	}

	var parts []string
	for _, kv := range [][2]string{{"location", f.Location}, {"brand", f.Brand}, {"area", f.Area}, {"title", f.Title}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	fmt.Fprintln(w, "Active filters:", strings.Join(parts, ", "))
}

func printFilterOptions(w io.Writer, opts models.FilterOptions) {
	for _, group := range []struct {
		name   string
		values []string
	}{
		{"location", opts.Locations},
		{"brand", opts.Brands},
		{"area", opts.Areas},
		{"title", opts.Titles},
	} {
		fmt.Fprintf(w, "%s (%d): %s\n", group.name, len(group.values), strings.Join(group.values, ", "))
	}
}

func printStats(w io.Writer, st models.Stats) {
	fmt.Fprintf(w, "Total employees: %d\n", st.Total)
	for _, group := range []struct {
		name   string
		counts map[string]int
	}{
		{"By stage", st.ByStage},
		{"By location", st.ByLocation},
		{"By area", st.ByArea},
		{"By title", st.ByTitle},
	} {
		fmt.Fprintln(w, group.name+":")
		keys := slices.Sorted(maps.Keys(group.counts))
		slices.SortStableFunc(keys, func(a, b string) int { return group.counts[b] - group.counts[a] })
		for _, k := range keys {
			fmt.Fprintf(w, "  %-30s %d\n", clip(k, 30), group.counts[k])
		}
	}
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
