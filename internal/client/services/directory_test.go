package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T, remote *fakeRemote) (*Directory, Store, *clock) {
	t.Helper()
	c := newClock()
	st := openStore(t, c)
	return NewDirectory(st, remote, Options{Now: c.Now, RemoteFallbackAfter: 5 * time.Minute}), st, c
}

func TestDirectory_SearchSyncsEmptyCache(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	remote.set(staff()...)
	dir, _, _ := newDirectory(t, remote)

	assert.False(t, dir.HasLocalData(ctx))

	res, err := dir.Search(ctx, "maria", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, res.Source)
	assert.Equal(t, []string{"rec2"}, ids(res.Employees))
	assert.EqualValues(t, 1, remote.listCalls.Load())
	assert.True(t, dir.HasLocalData(ctx))

	_, err = dir.Search(ctx, "pedro", models.Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, remote.listCalls.Load())
}

func TestDirectory_RemoteFallback(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	remote.set(staff()...)
	dir, st, c := newDirectory(t, remote)
	require.True(t, dir.SyncNow(ctx).Success)

	hired := models.Employee{ID: "rec4", Name: "Ana Nueva", Location: "Cuenca", Brand: "KFC"}
	remote.set(append(staff(), hired)...)

	t.Run("fresh cache answers locally", func(t *testing.T) {
		res, err := dir.Search(ctx, "ana", models.Filters{})
		require.NoError(t, err)
		assert.Equal(t, models.SourceLocal, res.Source)
		assert.Empty(t, res.Employees)
	})

	t.Run("stale cache falls back to remote", func(t *testing.T) {
		c.Advance(10 * time.Minute)

		res, err := dir.Search(ctx, "ana", models.Filters{Brand: "KFC"})
		require.NoError(t, err)
		assert.Equal(t, models.SourceRemote, res.Source)
		assert.Equal(t, []string{"rec4"}, ids(res.Employees))

		n, err := st.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		entry, err := st.LookupResult(ctx, "ana", models.Filters{Brand: "KFC"}.Canonical())
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("remote failure yields the empty local result", func(t *testing.T) {
		remote.mu.Lock()
		remote.listErr = errors.New("connection reset")
		remote.mu.Unlock()

		res, err := dir.Search(ctx, "ana", models.Filters{})
		require.NoError(t, err)
		assert.Equal(t, models.SourceLocal, res.Source)
		assert.NotNil(t, res.Employees)
		assert.Empty(t, res.Employees)
	})
}

func TestDirectory_UpdatesAndStatus(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	remote.set(staff()...)
	dir, _, c := newDirectory(t, remote)

	_, ok := dir.LastSyncTime(ctx)
	assert.False(t, ok)

	st, err := dir.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Status{SinceLastSync: "never"}, st)

	assert.True(t, dir.CheckForUpdates(ctx))
	assert.True(t, dir.UpdatesAvailable())

	require.True(t, dir.SyncNow(ctx).Success)
	assert.False(t, dir.UpdatesAvailable())
	assert.False(t, dir.CheckForUpdates(ctx))

	c.Advance(3 * time.Minute)
	last, ok := dir.LastSyncTime(ctx)
	assert.True(t, ok)
	assert.True(t, c.Now().Add(-3*time.Minute).Equal(last))

	st, err = dir.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.HasLocalData)
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, "3 min ago", st.SinceLastSync)
	assert.False(t, st.UpdatesAvailable)
}

func TestDirectory_Passthrough(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	remote.set(staff()...)
	dir, _, _ := newDirectory(t, remote)
	require.True(t, dir.SyncNow(ctx).Success)

	e, err := dir.Employee(ctx, "rec3")
	require.NoError(t, err)
	assert.Equal(t, "Pedro José Andrade", e.Name)

	_, err = dir.Employee(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	opts, err := dir.FilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Guayaquil", "Quito"}, opts.Locations)

	stats, err := dir.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)

	team, err := dir.Team(ctx, "pedro jose andrade")
	require.NoError(t, err)
	require.NotNil(t, team.Manager)
	assert.Equal(t, "rec3", team.Manager.ID)
	assert.Equal(t, []string{"rec1"}, ids(team.Members))

	_, err = dir.PruneResults(ctx)
	require.NoError(t, err)
}

func TestDirectory_SearchOverlappingSyncIsNotMemoized(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	st := newPausingStore(openStore(t, c))
	remote := &fakeRemote{}
	remote.set(staff()...)
	dir := NewDirectory(st, remote, Options{Now: c.Now})
	require.True(t, dir.SyncNow(ctx).Success)

	hired := models.Employee{ID: "rec4", Name: "José Nuevo", Location: "Cuenca", Brand: "KFC"}
	remote.set(append(staff(), hired)...)

	st.armed.Store(true)
	done := make(chan models.SearchResult)
	go func() {
		res, err := dir.Search(ctx, "jose", models.Filters{})
		assert.NoError(t, err)
		done <- res
	}()

	<-st.entered
	res := dir.SyncNow(ctx)
	require.True(t, res.Success)
	assert.Equal(t, 4, res.TotalRecords)
	close(st.release)

	stale := <-done
	assert.Equal(t, []string{"rec1", "rec3"}, ids(stale.Employees))

	fresh, err := dir.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, fresh.Source)
	assert.ElementsMatch(t, []string{"rec1", "rec3", "rec4"}, ids(fresh.Employees))

	again, err := dir.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, again.Source)
	assert.ElementsMatch(t, []string{"rec1", "rec3", "rec4"}, ids(again.Employees))
}
