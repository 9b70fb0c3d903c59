package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededSearch(t *testing.T, opts SearchOptions) (*SearchService, Store, *clock) {
	t.Helper()
	c := newClock()
	st := openStore(t, c)
	require.NoError(t, st.BulkUpsert(context.Background(), staff()))
	opts.Now = c.Now
	return NewSearchService(st, opts), st, c
}

func TestSearch_Matching(t *testing.T) {
	svc, _, _ := seededSearch(t, SearchOptions{})

	tests := []struct {
		name    string
		query   string
		filters models.Filters
		want    []string
	}{
		{name: "accent and case insensitive, name prefix first", query: "JOSE", want: []string{"rec1", "rec3"}},
		{name: "every token must match", query: "jose quito", want: []string{"rec1", "rec3"}},
		{name: "tokens from different employees", query: "jose guayaquil", want: []string{}},
		{name: "exact code", query: "c-22", want: []string{"rec2"}},
		{name: "national id substring", query: "2345", want: []string{"rec1"}},
		{name: "phone is not searchable", query: "0991", want: []string{}},
		{name: "filter only", filters: models.Filters{Location: "Quito"}, want: []string{"rec1", "rec3"}},
		{name: "filters are anded", filters: models.Filters{Location: "Quito", Title: "Gerente"}, want: []string{"rec3"}},
		{name: "query and filter", query: "maria", filters: models.Filters{Brand: "KFC"}, want: []string{}},
		{name: "manager name is searchable", query: "andrade", want: []string{"rec1", "rec3"}},
		{name: "whitespace query browses", query: "   ", want: []string{"rec1", "rec2", "rec3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(context.Background(), tt.query, tt.filters)
			require.NoError(t, err)
			assert.NotNil(t, res.Employees)
			assert.Equal(t, tt.want, ids(res.Employees))
		})
	}
}

func TestSearch_BrowseRespectsLimit(t *testing.T) {
	svc, _, _ := seededSearch(t, SearchOptions{BrowseLimit: 2})

	res, err := svc.Search(context.Background(), "", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec1", "rec2"}, ids(res.Employees))
	assert.Equal(t, models.SourceLocal, res.Source)
}

func TestSearch_ResultLimit(t *testing.T) {
	svc, _, _ := seededSearch(t, SearchOptions{ResultLimit: 1})

	res, err := svc.Search(context.Background(), "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec1"}, ids(res.Employees))
}

func TestSearch_MemoizesUntilTTL(t *testing.T) {
	ctx := context.Background()
	svc, st, c := seededSearch(t, SearchOptions{ResultTTL: 5 * time.Minute})

	first, err := svc.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, first.Source)

	entry, err := st.LookupResult(ctx, "jose", models.Filters{}.Canonical())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"rec1", "rec3"}, entry.IDs)

	c.Advance(4 * time.Minute)
	second, err := svc.Search(ctx, "José", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, second.Source)
	assert.Equal(t, ids(first.Employees), ids(second.Employees))

	c.Advance(2 * time.Minute)
	third, err := svc.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, third.Source)
}

func TestSearch_DurableLayerSurvivesNewService(t *testing.T) {
	ctx := context.Background()
	svc, st, c := seededSearch(t, SearchOptions{})

	_, err := svc.Search(ctx, "quito", models.Filters{Brand: "KFC"})
	require.NoError(t, err)

	fresh := NewSearchService(st, SearchOptions{Now: c.Now})
	res, err := fresh.Search(ctx, "quito", models.Filters{Brand: "KFC"})
	require.NoError(t, err)
	assert.Equal(t, models.SourceCache, res.Source)
	assert.Equal(t, []string{"rec1", "rec3"}, ids(res.Employees))
}

func TestSearch_EmptyResultIsNotMemoized(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := seededSearch(t, SearchOptions{})

	_, err := svc.Search(ctx, "nobody", models.Filters{})
	require.NoError(t, err)

	entry, err := st.LookupResult(ctx, "nobody", models.Filters{}.Canonical())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSearch_InvalidateResults(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := seededSearch(t, SearchOptions{})

	_, err := svc.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateResults(ctx))

	entry, err := st.LookupResult(ctx, "jose", models.Filters{}.Canonical())
	require.NoError(t, err)
	assert.Nil(t, entry)

	res, err := svc.Search(ctx, "jose", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, res.Source)
}

func TestSearch_CacheFailuresDegradeToRecompute(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	st := openStore(t, c)
	require.NoError(t, st.BulkUpsert(ctx, staff()))

	broken := &brokenStore{Store: st, err: common.ErrStorage, failOn: map[string]bool{"LookupResult": true, "SaveResult": true}}
	svc := NewSearchService(broken, SearchOptions{Now: c.Now, HotCacheSize: 1})

	res, err := svc.Search(ctx, "maria", models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec2"}, ids(res.Employees))
}

func TestSearch_StorageFailure(t *testing.T) {
	c := newClock()
	st := openStore(t, c)
	svc := NewSearchService(st, SearchOptions{Now: c.Now})
	require.NoError(t, st.Close())

	res, err := svc.Search(context.Background(), "jose", models.Filters{})
	require.ErrorIs(t, err, common.ErrStorage)
	assert.NotNil(t, res.Employees)
	assert.Empty(t, res.Employees)
}

func TestMatchEmployees_UsesBlobWhenMissing(t *testing.T) {
	items := staff()
	got := MatchEmployees(items, "cocina", models.Filters{})
	assert.Equal(t, []string{"rec1"}, ids(got))
}

func TestMatchEmployees_TokenizesRawTerm(t *testing.T) {
	got := MatchEmployees(staff(), "  QUITO   Administración ", models.Filters{})
	assert.Equal(t, []string{"rec3"}, ids(got))
}
