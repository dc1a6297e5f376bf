package nasc

import (
	"reflect"
	"sync"
)

// cacheKey identifies a cached instance: the key type plus the binding name.
type cacheKey struct {
	typ  reflect.Type
	name string
}

// cachedInstance holds a value and ensures it's created only once.
type cachedInstance struct {
	value interface{}
	err   error
	once  sync.Once
}

// instanceCache stores singleton (container-wide) or scoped (per-scope) instances.
type instanceCache struct {
	instances map[cacheKey]*cachedInstance
	mu        sync.RWMutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[cacheKey]*cachedInstance),
	}
}

// getOrCreate retrieves an existing instance or creates it using factory.
// The factory is called exactly once per key, even under concurrent access.
// The cache lock is not held while factory runs, so a factory may resolve
// other keys from the same cache.
//
// This method is goroutine-safe.
func (c *instanceCache) getOrCreate(key cacheKey, factory func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	instance, exists := c.instances[key]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		instance, exists = c.instances[key]
		if !exists {
			instance = &cachedInstance{}
			c.instances[key] = instance
		}
		c.mu.Unlock()
	}

	instance.once.Do(func() {
		instance.value, instance.err = factory()
	})

	return instance.value, instance.err
}

// reset drops every cached instance.
func (c *instanceCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[cacheKey]*cachedInstance)
}
