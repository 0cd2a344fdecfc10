package policies

import (
	"sync"

	"github.com/google/uuid"
)

// SetCache holds one immutable PolicySet snapshot per business. Snapshots
// are built lazily on first resolution and dropped whenever the business's
// rules change; the entry swap is atomic, so readers either see the old
// snapshot or the new one, never a half-built set. A resolution already
// holding a snapshot finishes against it: single-request correctness is
// snapshot-consistent, not always-freshest.
//
// Businesses are fully independent, so there is no cross-business locking.
type SetCache struct {
	sets sync.Map // uuid.UUID -> *PolicySet
}

// NewSetCache creates an empty snapshot cache.
func NewSetCache() *SetCache {
	return &SetCache{}
}

// Get returns the current snapshot for a business, if one is cached.
func (c *SetCache) Get(businessID uuid.UUID) (*PolicySet, bool) {
	v, ok := c.sets.Load(businessID)
	if !ok {
		return nil, false
	}
	return v.(*PolicySet), true
}

// Put replaces the business's snapshot wholesale.
func (c *SetCache) Put(set *PolicySet) {
	c.sets.Store(set.BusinessID(), set)
}

// Invalidate drops the business's snapshot so the next resolution rebuilds
// it from the store.
func (c *SetCache) Invalidate(businessID uuid.UUID) {
	c.sets.Delete(businessID)
}
