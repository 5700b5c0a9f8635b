// internal/cache/lru.go
//
// Small LRU cache with idle expiry.  Used by the session store to hold
// per-visitor form controllers.  No external deps; good for tens of
// thousands of entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a non-generic least-recently-used cache.  Keys must be comparable;
// values can be any.  Entries idle for longer than the TTL are treated as
// absent and dropped by Sweep.  Safe for concurrent use.
type LRU struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	ll      *list.List
	dict    map[any]*list.Element
	onEvict func(key, val any)
	now     func() time.Time
}

type entry struct {
	key  any
	val  any
	seen time.Time
}

// New returns an LRU with the given capacity.  ttl <= 0 disables idle
// expiry.  Panics on capacity < 1.
func New(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU{
		cap:  capacity,
		ttl:  ttl,
		ll:   list.New(),
		dict: make(map[any]*list.Element, capacity),
		now:  time.Now,
	}
}

// OnEvict registers fn, called (outside the lock) for every entry removed
// by capacity pressure, expiry, or Remove.
func (c *LRU) OnEvict(fn func(key, val any)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get retrieves a value and marks it MRU.  Expired entries miss.
func (c *LRU) Get(key any) (val any, ok bool) {
	c.mu.Lock()
	ele, hit := c.dict[key]
	if !hit {
		c.mu.Unlock()
		return nil, false
	}
	e := ele.Value.(*entry)
	now := c.now()
	if c.expired(e, now) {
		c.removeLocked(ele)
		fn := c.onEvict
		c.mu.Unlock()
		if fn != nil {
			fn(e.key, e.val)
		}
		return nil, false
	}
	e.seen = now
	c.ll.MoveToFront(ele)
	c.mu.Unlock()
	return e.val, true
}

// Add inserts or updates a value.
func (c *LRU) Add(key, val any) {
	c.mu.Lock()
	now := c.now()
	if ele, hit := c.dict[key]; hit {
		e := ele.Value.(*entry)
		e.val, e.seen = val, now
		c.ll.MoveToFront(ele)
		c.mu.Unlock()
		return
	}
	c.dict[key] = c.ll.PushFront(&entry{key: key, val: val, seen: now})

	var evicted *entry
	if c.ll.Len() > c.cap {
		evicted = c.removeLocked(c.ll.Back())
	}
	fn := c.onEvict
	c.mu.Unlock()

	if evicted != nil && fn != nil {
		fn(evicted.key, evicted.val)
	}
}

// GetOrAdd returns the live value for key, or stores val when key is
// absent or expired.  added reports whether val was stored.  The check and
// the insert happen under one lock, so concurrent callers agree on a
// single value.
func (c *LRU) GetOrAdd(key, val any) (actual any, added bool) {
	c.mu.Lock()
	now := c.now()
	var evicted []*entry
	if ele, hit := c.dict[key]; hit {
		e := ele.Value.(*entry)
		if !c.expired(e, now) {
			e.seen = now
			c.ll.MoveToFront(ele)
			c.mu.Unlock()
			return e.val, false
		}
		evicted = append(evicted, c.removeLocked(ele))
	}
	c.dict[key] = c.ll.PushFront(&entry{key: key, val: val, seen: now})
	if c.ll.Len() > c.cap {
		evicted = append(evicted, c.removeLocked(c.ll.Back()))
	}
	fn := c.onEvict
	c.mu.Unlock()

	if fn != nil {
		for _, e := range evicted {
			fn(e.key, e.val)
		}
	}
	return val, true
}

// Remove deletes key if present.
func (c *LRU) Remove(key any) {
	c.mu.Lock()
	ele, hit := c.dict[key]
	if !hit {
		c.mu.Unlock()
		return
	}
	e := c.removeLocked(ele)
	fn := c.onEvict
	c.mu.Unlock()
	if fn != nil {
		fn(e.key, e.val)
	}
}

// Sweep drops every expired entry and returns how many were removed.
func (c *LRU) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	now := c.now()
	var gone []*entry
	// Oldest entries live at the back.
	for ele := c.ll.Back(); ele != nil; {
		e := ele.Value.(*entry)
		if !c.expired(e, now) {
			break
		}
		prev := ele.Prev()
		gone = append(gone, c.removeLocked(ele))
		ele = prev
	}
	fn := c.onEvict
	c.mu.Unlock()

	if fn != nil {
		for _, e := range gone {
			fn(e.key, e.val)
		}
	}
	return len(gone)
}

// Len reports current size, expired entries included until swept.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU) expired(e *entry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.seen) > c.ttl
}

func (c *LRU) removeLocked(ele *list.Element) *entry {
	e := ele.Value.(*entry)
	c.ll.Remove(ele)
	delete(c.dict, e.key)
	return e
}
