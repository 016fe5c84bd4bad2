package beacon

// Family is a keyed factory caching one cell per argument (§4.10). Identity
// is structural equality of the key (Go's comparable constraint gives this
// for free, unlike the source's runtime deep-equality check).
type Family[K comparable, C any] struct {
	factory    func(K) C
	shouldCache bool
	cache      map[K]C
}

// FamilyOption configures a Family at construction.
type FamilyOption func(*familyConfig)

type familyConfig struct {
	shouldCache bool
}

func resolveFamilyOpts(opts []FamilyOption) familyConfig {
	cfg := familyConfig{shouldCache: true}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithFamilyCache overrides the default (cache=true): false calls factory
// fresh on every lookup instead of memoizing by key.
func WithFamilyCache(shouldCache bool) FamilyOption {
	return func(c *familyConfig) { c.shouldCache = shouldCache }
}

// NewFamily creates a family backed by factory.
func NewFamily[K comparable, C any](factory func(K) C, opts ...FamilyOption) *Family[K, C] {
	cfg := resolveFamilyOpts(opts)
	return &Family[K, C]{factory: factory, shouldCache: cfg.shouldCache, cache: make(map[K]C)}
}

// Get returns the cell for key: the cached one if present, otherwise a
// freshly-constructed one (stored in the cache when shouldCache is set).
func (f *Family[K, C]) Get(key K) C {
	if f.shouldCache {
		if c, ok := f.cache[key]; ok {
			return c
		}
	}
	c := f.factory(key)
	if f.shouldCache {
		f.cache[key] = c
	}
	return c
}

// Clear drops every cached entry without disposing the cells produced —
// callers may still hold references to them externally (§4.10).
func (f *Family[K, C]) Clear() {
	f.cache = make(map[K]C)
}

// Len reports how many entries are currently cached.
func (f *Family[K, C]) Len() int { return len(f.cache) }
