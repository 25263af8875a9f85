package authz

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Cache memoizes evaluator decisions per principal. It is constructed
// explicitly (no package state) so tests can run isolated instances and the
// application controls its lifecycle.
//
// Entries never expire on a timer; they are dropped only by the Invalidator
// methods, which mutating services call. Concurrent misses for the same key
// coalesce into one evaluator call.
type Cache struct {
	service *Service
	metrics *observability.Metrics
	group   singleflight.Group

	mu        sync.RWMutex
	decisions map[int64]map[string]bool
	byRole    map[rbac.Role]map[int64]struct{}

	// gen and userGen advance on every invalidation. A decision evaluated
	// before an invalidation must not be written after it, so store compares
	// the counters captured before Evaluate against the current ones.
	gen     uint64
	userGen map[int64]uint64
}

// NewCache constructs a Cache on top of the evaluator.
func NewCache(service *Service, metrics *observability.Metrics) *Cache {
	return &Cache{
		service:   service,
		metrics:   metrics,
		decisions: make(map[int64]map[string]bool),
		byRole:    make(map[rbac.Role]map[int64]struct{}),
		userGen:   make(map[int64]uint64),
	}
}

// Lookup is the synchronous snapshot read. ok is false when no decision is
// cached for the key, in which case the caller must Check.
func (c *Cache) Lookup(userID int64, resource string, action rbac.Action) (allowed, ok bool) {
	key := rbac.PermissionKey(resource, action)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if perUser, found := c.decisions[userID]; found {
		if allowed, ok = perUser[key]; ok {
			return allowed, true
		}
	}
	return false, false
}

// Check returns the cached decision or evaluates and caches it. In-flight
// evaluations for the same (user, resource, action) are deduplicated.
func (c *Cache) Check(ctx context.Context, userID int64, resource string, action rbac.Action) (bool, error) {
	if allowed, ok := c.Lookup(userID, resource, action); ok {
		c.metrics.ObserveCache(true)
		return allowed, nil
	}
	c.metrics.ObserveCache(false)

	flightKey := fmt.Sprintf("%d|%s|%s", userID, resource, action)
	value, err, _ := c.group.Do(flightKey, func() (any, error) {
		c.mu.RLock()
		gen, userGen := c.gen, c.userGen[userID]
		c.mu.RUnlock()

		result, err := c.service.Evaluate(ctx, userID, resource, action)
		if err != nil {
			return nil, err
		}
		c.store(userID, result.Role, rbac.PermissionKey(resource, action), result.Allowed, gen, userGen)
		return result.Allowed, nil
	})
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

func (c *Cache) store(userID int64, role rbac.Role, key string, allowed bool, gen, userGen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || userGen != c.userGen[userID] {
		// An invalidation ran while this decision was in flight. The result
		// may reflect pre-mutation data, so it is dropped.
		return
	}
	perUser := c.decisions[userID]
	if perUser == nil {
		perUser = make(map[string]bool)
		c.decisions[userID] = perUser
	}
	perUser[key] = allowed

	members := c.byRole[role]
	if members == nil {
		members = make(map[int64]struct{})
		c.byRole[role] = members
	}
	members[userID] = struct{}{}
}

// InvalidateUser drops every cached decision for one user. Called after a
// user override mutation.
func (c *Cache) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userGen[userID]++
	delete(c.decisions, userID)
	for _, members := range c.byRole {
		delete(members, userID)
	}
}

// InvalidateRole drops cached decisions for every user whose entries were
// populated under the given role. Called after a role grant mutation.
// Invalidation is deliberately coarse; correctness only requires that stale
// decisions are gone.
func (c *Cache) InvalidateRole(role rbac.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// The byRole index only lists users whose decisions are already cached,
	// so in-flight evaluations are fenced with the global counter instead.
	c.gen++
	for userID := range c.byRole[role] {
		delete(c.decisions, userID)
	}
	delete(c.byRole, role)
}

// InvalidateAll resets the cache. Called after catalog-level mutations that
// can affect any principal.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.decisions = make(map[int64]map[string]bool)
	c.byRole = make(map[rbac.Role]map[int64]struct{})
}

var _ Invalidator = (*Cache)(nil)
