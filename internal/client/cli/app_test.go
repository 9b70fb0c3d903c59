package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/config"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	lastQuery   string
	lastFilters models.Filters
	results     []models.Employee
	searchErr   error
	sync        models.SyncResult
	updates     bool
}

func (f *fakeDirectory) Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error) {
	f.lastQuery, f.lastFilters = query, filters
	if f.searchErr != nil {
		return models.SearchResult{Employees: []models.Employee{}}, f.searchErr
	}
	return models.SearchResult{Employees: f.results, Source: models.SourceLocal, Took: time.Millisecond}, nil
}

func (f *fakeDirectory) SyncNow(ctx context.Context) models.SyncResult { return f.sync }

func (f *fakeDirectory) CheckForUpdates(ctx context.Context) bool { return f.updates }

func (f *fakeDirectory) Status(ctx context.Context) (models.Status, error) {
	return models.Status{HasLocalData: true, Records: 3, SinceLastSync: "4 min ago"}, nil
}

func (f *fakeDirectory) Employee(ctx context.Context, id string) (models.Employee, error) {
	for _, e := range f.results {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Employee{}, common.ErrNotFound
}

func (f *fakeDirectory) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	return models.FilterOptions{Locations: []string{"Guayaquil", "Quito"}, Brands: []string{"KFC"}}, nil
}

func (f *fakeDirectory) Stats(ctx context.Context) (models.Stats, error) {
	return models.Stats{Total: 3, ByLocation: map[string]int{"Quito": 2, "Guayaquil": 1}}, nil
}

func (f *fakeDirectory) Team(ctx context.Context, managerName string) (models.Team, error) {
	return models.Team{ManagerName: managerName, Members: []models.Employee{}}, nil
}

func newTestApp(dir *fakeDirectory, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config: cfg,
		dir:    dir,
		log:    logging.Discard(),
		Mode:   ModeLocal,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func staff() []models.Employee {
	months := 18
	return []models.Employee{
		{ID: "rec1", Name: "José Pérez", Code: "C-17", Title: "Jefe de Cocina", Location: "Quito", Phone: "0991234567", TenureMonths: &months},
		{ID: "rec2", Name: "María López", Code: "C-22", Title: "Cajera", Location: "Guayaquil"},
	}
}

func TestApp_SearchUsesActiveFilters(t *testing.T) {
	dir := &fakeDirectory{results: staff()}
	app, out := newTestApp(dir, "")
	ctx := context.Background()

	require.NoError(t, app.SetFilters(ctx, []string{"location=Quito", "title=Jefe_de_Cocina"}))
	assert.Contains(t, out.String(), "Active filters: location=Quito, title=Jefe de Cocina")

	require.NoError(t, app.Search(ctx, "jose"))
	assert.Equal(t, "jose", dir.lastQuery)
	assert.Equal(t, models.Filters{Location: "Quito", Title: "Jefe de Cocina"}, dir.lastFilters)
	assert.Contains(t, out.String(), "José Pérez")
	assert.Contains(t, out.String(), "2 result(s) from local")

	require.NoError(t, app.ClearFilters(ctx))
	require.NoError(t, app.List(ctx))
	assert.Equal(t, "", dir.lastQuery)
	assert.True(t, dir.lastFilters.IsEmpty())
}

func TestApp_SetFiltersRejectsBadInput(t *testing.T) {
	app, out := newTestApp(&fakeDirectory{}, "")
	ctx := context.Background()

	assert.ErrorIs(t, app.SetFilters(ctx, nil), errUsage)
	assert.ErrorIs(t, app.SetFilters(ctx, []string{"location"}), errUsage)
	assert.ErrorIs(t, app.SetFilters(ctx, []string{"color=red"}), errUsage)
	assert.True(t, app.filters.IsEmpty())
	assert.Contains(t, out.String(), `Unknown filter "color"`)
}

func TestApp_SearchReportsFailures(t *testing.T) {
	ctx := context.Background()

	dir := &fakeDirectory{searchErr: common.ErrStorage}
	app, out := newTestApp(dir, "")
	assert.Error(t, app.Search(ctx, "x"))
	assert.Contains(t, out.String(), "The local cache is unavailable")
	assert.Contains(t, out.String(), "staffdir.db")

	dir.searchErr = common.ErrTransport
	out.Reset()
	assert.Error(t, app.Search(ctx, "x"))
	assert.Contains(t, out.String(), "Could not reach the directory service")

	dir.searchErr = nil
	out.Reset()
	require.NoError(t, app.Search(ctx, "x"))
	assert.Contains(t, out.String(), "No employees found.")
}

func TestApp_ShowPromptsForID(t *testing.T) {
	app, out := newTestApp(&fakeDirectory{results: staff()}, "rec1\n")
	ctx := context.Background()

	require.NoError(t, app.Show(ctx, ""))
	assert.Contains(t, out.String(), "Enter employee ID")
	assert.Contains(t, out.String(), "José Pérez")
	assert.Contains(t, out.String(), "18 months")

	out.Reset()
	assert.ErrorIs(t, app.Show(ctx, "missing"), common.ErrNotFound)
	assert.Contains(t, out.String(), "Not found.")
}

func TestApp_SyncAndUpdates(t *testing.T) {
	dir := &fakeDirectory{updates: true, sync: models.SyncResult{Success: true, Message: "Database synchronized", RemovedRecords: 2}}
	app, out := newTestApp(dir, "")
	ctx := context.Background()

	require.NoError(t, app.CheckUpdates(ctx))
	assert.True(t, app.updates.Load())
	assert.Contains(t, app.getStatus(ctx), "updates available")

	require.NoError(t, app.Sync(ctx))
	assert.False(t, app.updates.Load())
	assert.Contains(t, out.String(), "Database synchronized")
	assert.Contains(t, out.String(), "2 employee(s) no longer active were removed.")

	dir.sync = models.SyncResult{Success: false, Message: "Could not reach the directory server. Check your connection", Failure: models.FailureTransport}
	assert.Error(t, app.Sync(ctx))
}

func TestApp_UpdateWatcherAnnouncesOnce(t *testing.T) {
	dir := &fakeDirectory{updates: true}
	app, out := newTestApp(dir, "")
	ctx := context.Background()

	app.checkUpdatesQuietly(ctx)
	app.checkUpdatesQuietly(ctx)
	assert.Equal(t, 1, strings.Count(out.String(), "Updates are available"))

	dir.updates = false
	app.checkUpdatesQuietly(ctx)
	assert.False(t, app.updates.Load())
}

func TestApp_StatusStatsFiltersTeam(t *testing.T) {
	app, out := newTestApp(&fakeDirectory{}, "")
	ctx := context.Background()

	assert.Equal(t, "(3, synced 4 min ago)", app.getStatus(ctx))

	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "Last sync:   4 min ago")

	require.NoError(t, app.Stats(ctx))
	assert.Contains(t, out.String(), "Total employees: 3")
	assert.Less(t, strings.Index(out.String(), "Quito"), strings.Index(out.String(), "Guayaquil"))

	require.NoError(t, app.Filters(ctx))
	assert.Contains(t, out.String(), "location (2): Guayaquil, Quito")

	assert.ErrorIs(t, app.Team(ctx, " "), errUsage)
	require.NoError(t, app.Team(ctx, "Pedro"))
	assert.Contains(t, out.String(), "Pedro (not in the directory)")
}
