package binanceapi

import (
	"sync"
	"sync/atomic"
)

// RequestDefinition is the immutable metadata of an endpoint.
type RequestDefinition struct {
	Method          string
	Path            string
	RateLimitBucket RateLimitBucket
	Weight          int
	Authenticated   bool
}

func (d *RequestDefinition) String() string {
	return d.Method + " " + d.Path
}

// RequestDefinitionCache memoizes request definitions by endpoint (method + path).
// Entries live as long as the cache, the number of endpoints is fixed.
type RequestDefinitionCache struct {
	definitions sync.Map
	size        int64
}

func NewRequestDefinitionCache() *RequestDefinitionCache {
	return &RequestDefinitionCache{}
}

// GetOrCreate returns the cached definition of the endpoint, the definition is created on the first call.
// When two goroutines populate the same endpoint concurrently, the first stored definition is returned to both.
func (c *RequestDefinitionCache) GetOrCreate(
	method, path string, bucket RateLimitBucket, weight int, authenticated bool,
) *RequestDefinition {
	key := method + " " + path
	if def, ok := c.definitions.Load(key); ok {
		return def.(*RequestDefinition)
	}

	def, loaded := c.definitions.LoadOrStore(key, &RequestDefinition{
		Method:          method,
		Path:            path,
		RateLimitBucket: bucket,
		Weight:          weight,
		Authenticated:   authenticated,
	})

	if !loaded {
		atomic.AddInt64(&c.size, 1)
	}

	return def.(*RequestDefinition)
}

// Len returns the number of cached definitions.
func (c *RequestDefinitionCache) Len() int {
	return int(atomic.LoadInt64(&c.size))
}

// definitions is shared by all the requests of this package
var definitions = NewRequestDefinitionCache()
