package services

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/store"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func openStore(t *testing.T, c *clock) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{Path: ":memory:", Now: c.Now})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fakeRemote struct {
	mu       sync.Mutex
	items    []models.Employee
	listErr  error
	countErr error

	// entered is signalled on every ListActive call; gate, when set, blocks
	// ListActive until closed.
	entered chan struct{}
	gate    chan struct{}

	listCalls  atomic.Int32
	countCalls atomic.Int32
}

func (f *fakeRemote) ListActive(ctx context.Context, filters models.Filters) ([]models.Employee, error) {
	f.listCalls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]models.Employee, 0, len(f.items))
	for _, e := range f.items {
		if filters.Match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRemote) CountActive(ctx context.Context) (int, error) {
	f.countCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.items), nil
}

func (f *fakeRemote) set(items ...models.Employee) {
	f.mu.Lock()
	f.items = slices.Clone(items)
	f.mu.Unlock()
}

// brokenStore fails the named operations with err and delegates the rest.
type brokenStore struct {
	Store
	err    error
	failOn map[string]bool
}

func (b *brokenStore) ReplaceAll(ctx context.Context, items []models.Employee) (int, error) {
	if b.failOn["ReplaceAll"] {
		return 0, b.err
	}
	return b.Store.ReplaceAll(ctx, items)
}

func (b *brokenStore) Count(ctx context.Context) (int, error) {
	if b.failOn["Count"] {
		return 0, b.err
	}
	return b.Store.Count(ctx)
}

func (b *brokenStore) SetLastSync(ctx context.Context, t time.Time) error {
	if b.failOn["SetLastSync"] {
		return b.err
	}
	return b.Store.SetLastSync(ctx, t)
}

func (b *brokenStore) LookupResult(ctx context.Context, query, filters string) (*models.QueryCacheEntry, error) {
	if b.failOn["LookupResult"] {
		return nil, b.err
	}
	return b.Store.LookupResult(ctx, query, filters)
}

func (b *brokenStore) SaveResult(ctx context.Context, entry models.QueryCacheEntry) error {
	if b.failOn["SaveResult"] {
		return b.err
	}
	return b.Store.SaveResult(ctx, entry)
}

// pausingStore blocks the first ListAll after arm until release is closed.
type pausingStore struct {
	Store
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newPausingStore(st Store) *pausingStore {
	return &pausingStore{Store: st, entered: make(chan struct{}), release: make(chan struct{})}
}

func (p *pausingStore) ListAll(ctx context.Context) ([]models.Employee, error) {
	items, err := p.Store.ListAll(ctx)
	if p.armed.CompareAndSwap(true, false) {
		close(p.entered)
		<-p.release
	}
	return items, err
}

func staff() []models.Employee {
	return []models.Employee{
		{
			ID: "rec1", Name: "José Pérez", Code: "C-17", Title: "Jefe de Cocina",
			Location: "Quito", Brand: "KFC", Area: "Operaciones",
			NationalID: "1712345678", Phone: "0991234567", Manager: "Pedro José Andrade",
		},
		{
			ID: "rec2", Name: "María López", Code: "C-22", Title: "Cajera",
			Location: "Guayaquil", Brand: "Menestras", Area: "Operaciones",
			Phone: "0987654321",
		},
		{
			ID: "rec3", Name: "Pedro José Andrade", Code: "C-30", Title: "Gerente",
			Location: "Quito", Brand: "KFC", Area: "Administración",
		},
	}
}

func ids(items []models.Employee) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}
