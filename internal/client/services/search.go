package services

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
	"github.com/dmitrijs2005/staffdir/internal/textnorm"
)

const (
	DefaultResultTTL    = 5 * time.Minute
	DefaultBrowseLimit  = 200
	DefaultResultLimit  = 50
	DefaultHotCacheSize = 256
)

type SearchOptions struct {
	// ResultTTL bounds how long a memoized result is served.
	ResultTTL   time.Duration
	BrowseLimit int
	ResultLimit int
	// HotCacheSize is the capacity of the in-process result layer.
	HotCacheSize int
	Now          func() time.Time
	Logger       logging.Logger
}

func (o *SearchOptions) defaults() {
	if o.ResultTTL <= 0 {
		o.ResultTTL = DefaultResultTTL
	}
	if o.BrowseLimit <= 0 {
		o.BrowseLimit = DefaultBrowseLimit
	}
	if o.ResultLimit <= 0 {
		o.ResultLimit = DefaultResultLimit
	}
	if o.HotCacheSize <= 0 {
		o.HotCacheSize = DefaultHotCacheSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// SearchService answers queries from the local store. Results of non-empty
// queries are memoized in two layers: a bounded in-process LRU and the
// durable search_cache table.
type SearchService struct {
	store Store
	hot   *expirable.LRU[string, models.QueryCacheEntry]
	opts  SearchOptions
	log   logging.Logger

	// gen advances on every invalidation. A result computed under an older
	// generation is not memoized. memoMu orders memo writes against purges.
	gen    atomic.Uint64
	memoMu sync.Mutex
}

func NewSearchService(st Store, opts SearchOptions) *SearchService {
	opts.defaults()
	return &SearchService{
		store: st,
		hot:   expirable.NewLRU[string, models.QueryCacheEntry](opts.HotCacheSize, nil, opts.ResultTTL),
		opts:  opts,
		log:   logging.OrDiscard(opts.Logger).With("module", "search"),
	}
}

// Search returns employees matching query and filters. An empty query with
// no filters browses the first BrowseLimit employees by name. The returned
// slice is never nil; the error is non-nil only when the store fails.
func (s *SearchService) Search(ctx context.Context, query string, filters models.Filters) (models.SearchResult, error) {
	start := time.Now()
	term := strings.TrimSpace(textnorm.Normalize(query))

	if term == "" && filters.IsEmpty() {
		items, err := s.store.GetAll(ctx, s.opts.BrowseLimit)
		if err != nil {
			return emptyResult(models.SourceLocal), err
		}
		return s.result(items, models.SourceLocal, start), nil
	}

	fkey := filters.Canonical()
	if ids, ok := s.cached(ctx, term, fkey); ok {
		items, err := s.store.GetByIDs(ctx, ids)
		if err == nil {
			return s.result(items, models.SourceCache, start), nil
		}
		s.log.Warn(ctx, "failed to load memoized result, recomputing", "error", err)
	}

	gen := s.gen.Load()
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return emptyResult(models.SourceLocal), err
	}

	matches := MatchEmployees(all, term, filters)
	if len(matches) > s.opts.ResultLimit {
		matches = matches[:s.opts.ResultLimit]
	}
	if len(matches) > 0 {
		s.remember(ctx, gen, term, fkey, matches)
	}

	return s.result(matches, models.SourceLocal, start), nil
}

// InvalidateResults drops every memoized result from both layers.
func (s *SearchService) InvalidateResults(ctx context.Context) error {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()

	s.gen.Add(1)
	s.hot.Purge()
	return s.store.ClearResultCache(ctx)
}

func (s *SearchService) cached(ctx context.Context, term, fkey string) ([]string, bool) {
	key := models.CacheKey(term, fkey)
	now := s.opts.Now()

	if e, ok := s.hot.Get(key); ok {
		if e.Valid(now, s.opts.ResultTTL) {
			resultCacheLookups.WithLabelValues(layerMemory, outcomeHit).Inc()
			return e.IDs, true
		}
		s.hot.Remove(key)
		resultCacheLookups.WithLabelValues(layerMemory, outcomeExpired).Inc()
	} else {
		resultCacheLookups.WithLabelValues(layerMemory, outcomeMiss).Inc()
	}

	e, err := s.store.LookupResult(ctx, term, fkey)
	switch {
	case err != nil:
		s.log.Warn(ctx, "result cache lookup failed", "error", err)
		return nil, false
	case e == nil:
		resultCacheLookups.WithLabelValues(layerDurable, outcomeMiss).Inc()
		return nil, false
	case !e.Valid(now, s.opts.ResultTTL):
		resultCacheLookups.WithLabelValues(layerDurable, outcomeExpired).Inc()
		return nil, false
	}

	resultCacheLookups.WithLabelValues(layerDurable, outcomeHit).Inc()
	s.hot.Add(key, *e)
	return e.IDs, true
}

func (s *SearchService) remember(ctx context.Context, gen uint64, term, fkey string, items []models.Employee) {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()

	if s.gen.Load() != gen {
		s.log.Debug(ctx, "result computed before invalidation, not memoized", "query", term)
		return
	}

	ids := make([]string, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}

	entry := models.QueryCacheEntry{Query: term, Filters: fkey, IDs: ids, CreatedAt: s.opts.Now()}
	s.hot.Add(models.CacheKey(term, fkey), entry)

	if err := s.store.SaveResult(ctx, entry); err != nil {
		s.log.Warn(ctx, "failed to memoize result", "error", err)
	}
}

func (s *SearchService) result(items []models.Employee, source string, start time.Time) models.SearchResult {
	took := time.Since(start)
	searchDuration.WithLabelValues(source).Observe(took.Seconds())
	if items == nil {
		items = []models.Employee{}
	}
	return models.SearchResult{Employees: items, Source: source, Took: took}
}

func emptyResult(source string) models.SearchResult {
	return models.SearchResult{Employees: []models.Employee{}, Source: source}
}

// MatchEmployees applies filters and the normalized term to items. Every
// token of term must occur in the employee's search blob; alternatively the
// term may equal the normalized employee code or occur in the national id.
// Employees whose name starts with term are moved to the front, otherwise
// the input order is kept.
func MatchEmployees(items []models.Employee, term string, filters models.Filters) []models.Employee {
	tokens := textnorm.Tokens(term)
	out := make([]models.Employee, 0)

	for _, e := range items {
		if !filters.Match(e) {
			continue
		}
		if term != "" && !matchesText(e, term, tokens) {
			continue
		}
		out = append(out, e)
	}

	if term != "" {
		slices.SortStableFunc(out, func(a, b models.Employee) int {
			ap := strings.HasPrefix(textnorm.Normalize(a.Name), term)
			bp := strings.HasPrefix(textnorm.Normalize(b.Name), term)
			switch {
			case ap && !bp:
				return -1
			case bp && !ap:
				return 1
			}
			return 0
		})
	}

	return out
}

func matchesText(e models.Employee, term string, tokens []string) bool {
	blob := e.SearchBlob
	if blob == "" {
		blob = textnorm.PrepareSearchBlob(e)
	}

	all := true
	for _, t := range tokens {
		if !strings.Contains(blob, t) {
			all = false
			break
		}
	}
	if all {
		return true
	}

	if e.Code != "" && textnorm.Normalize(e.Code) == term {
		return true
	}
	return e.NationalID != "" && strings.Contains(textnorm.Normalize(e.NationalID), term)
}
