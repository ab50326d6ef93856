package query

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
)

const (
	defaultCacheTTL      = time.Minute
	cacheCleanupInterval = 5 * time.Minute
)

// SnapshotSource — то, что умеет отдать согласованную пару
// (снимок, ревизия). Реализуется хранилищем сделок.
type SnapshotSource interface {
	Snapshot() ([]entity.Deal, uint64)
	Revision() uint64
}

// CachedEngine запоминает результаты Query по ключу (ревизия хранилища,
// дата, спецификация). Любая мутация хранилища меняет ревизию, так что
// устаревший результат не вернётся; старые ключи просто истекают по TTL.
type CachedEngine struct {
	source SnapshotSource
	cache  *cache.Cache
	today  func() value.Date
}

func NewCachedEngine(source SnapshotSource) *CachedEngine {
	return &CachedEngine{
		source: source,
		cache:  cache.New(defaultCacheTTL, cacheCleanupInterval),
		today:  func() value.Date { return value.DateOf(time.Now()) },
	}
}

func (e *CachedEngine) WithTTL(ttl time.Duration) *CachedEngine {
	e.cache = cache.New(ttl, cacheCleanupInterval)
	return e
}

func (e *CachedEngine) WithToday(today func() value.Date) *CachedEngine {
	e.today = today
	return e
}

// Query возвращает отфильтрованные сделки и общее число сделок в снимке.
func (e *CachedEngine) Query(spec Spec) (deals []entity.Deal, total int) {
	today := e.today()

	if res, ok := e.lookup(e.source.Revision(), today, spec); ok {
		return cloneDeals(res.deals), res.total
	}

	snapshot, revision := e.source.Snapshot()
	res := cachedResult{
		deals: Query(snapshot, spec, today),
		total: len(snapshot),
	}

	e.cache.SetDefault(cacheKey(revision, today, spec), res)

	return cloneDeals(res.deals), res.total
}

func (e *CachedEngine) Summary() Summary {
	snapshot, _ := e.source.Snapshot()
	return Summarize(snapshot)
}

func (e *CachedEngine) UpcomingRefunds(horizonDays int) []UpcomingRefund {
	snapshot, _ := e.source.Snapshot()
	return UpcomingRefunds(snapshot, e.today(), horizonDays)
}

func (e *CachedEngine) ItemCount() int {
	return e.cache.ItemCount()
}

// cloneDeals отдаёт вызывающему независимую копию: в кэше лежат те же
// записи, и менять их через указатели нельзя.
func cloneDeals(deals []entity.Deal) []entity.Deal {
	return lo.Map(deals, func(d entity.Deal, _ int) entity.Deal { return d.Clone() })
}

type cachedResult struct {
	deals []entity.Deal
	total int
}

func (e *CachedEngine) lookup(revision uint64, today value.Date, spec Spec) (cachedResult, bool) {
	v, ok := e.cache.Get(cacheKey(revision, today, spec))
	if !ok {
		return cachedResult{}, false
	}

	res, ok := v.(cachedResult)

	return res, ok
}

func cacheKey(revision uint64, today value.Date, spec Spec) string {
	return fmt.Sprintf("%d|%s|%#v", revision, today, spec)
}
