package task

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// TaskCache is the key-value cache the decorator reads through.
type TaskCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// CachedRepository decorates a Store with cache-aside reads of single tasks.
// Keys embed the owner, so a cached task is only ever served to its owner.
// Cache failures are logged and fall through to the wrapped Store.
//
// A load that races with an invalidation of the same key never leaves its
// result in the cache: invalidation marks in-flight loads stale, and a stale
// load removes whatever it wrote.
type CachedRepository struct {
	store  Store
	cache  TaskCache
	group  singleflight.Group
	logger types.Logger

	mu    sync.Mutex
	loads map[string][]*pendingLoad
}

// pendingLoad is one store read in flight for a cache key.
type pendingLoad struct {
	stale bool
}

var _ Store = (*CachedRepository)(nil)

// NewCachedRepository wraps store with cache.
func NewCachedRepository(store Store, cache TaskCache, logger types.Logger) *CachedRepository {
	return &CachedRepository{
		store:  store,
		cache:  cache,
		logger: logger,
		loads:  make(map[string][]*pendingLoad),
	}
}

func cacheKey(id, ownerID string) string {
	return fmt.Sprintf("task:%s:%s", ownerID, id)
}

// FindAll is never cached; filters make listings poor cache keys.
func (r *CachedRepository) FindAll(ctx context.Context, filter domain.Filter, ownerID string) ([]domain.Task, error) {
	return r.store.FindAll(ctx, filter, ownerID)
}

// FindByID serves from cache, collapsing concurrent misses for the same key.
func (r *CachedRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	key := cacheKey(id, ownerID)

	var cached domain.Task
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		load := r.beginLoad(key)
		defer r.endLoad(key, load)

		task, err := r.store.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		r.populate(ctx, key, load, task)
		return task, nil
	})
	if err != nil {
		return nil, err
	}

	task := *v.(*domain.Task)
	return &task, nil
}

// Create stores the task and warms the cache.
func (r *CachedRepository) Create(ctx context.Context, input domain.CreateInput, ownerID string) (*domain.Task, error) {
	task, err := r.store.Create(ctx, input, ownerID)
	if err != nil {
		return nil, err
	}
	r.set(ctx, cacheKey(task.ID, ownerID), task)
	return task, nil
}

// Delete removes the task and its cache entry.
func (r *CachedRepository) Delete(ctx context.Context, id, ownerID string) error {
	err := r.store.Delete(ctx, id, ownerID)
	r.invalidate(ctx, cacheKey(id, ownerID))
	return err
}

// UpdateTitle updates the title and drops the cached copy.
func (r *CachedRepository) UpdateTitle(ctx context.Context, id, title, ownerID string) (*domain.Task, error) {
	defer r.invalidate(ctx, cacheKey(id, ownerID))
	return r.store.UpdateTitle(ctx, id, title, ownerID)
}

// UpdateDescription updates the description and drops the cached copy.
func (r *CachedRepository) UpdateDescription(ctx context.Context, id, description, ownerID string) (*domain.Task, error) {
	defer r.invalidate(ctx, cacheKey(id, ownerID))
	return r.store.UpdateDescription(ctx, id, description, ownerID)
}

// UpdateStatus updates the status and drops the cached copy.
func (r *CachedRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*domain.Task, error) {
	defer r.invalidate(ctx, cacheKey(id, ownerID))
	return r.store.UpdateStatus(ctx, id, status, ownerID)
}

func (r *CachedRepository) set(ctx context.Context, key string, task *domain.Task) {
	if err := r.cache.Set(ctx, key, task); err != nil {
		r.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

// populate caches a loaded task unless the key was invalidated during the load.
// The second check covers an invalidation landing between the first check and
// the write.
func (r *CachedRepository) populate(ctx context.Context, key string, load *pendingLoad, task *domain.Task) {
	if r.isStale(load) {
		return
	}
	r.set(ctx, key, task)
	if r.isStale(load) {
		r.invalidateCache(ctx, key)
	}
}

// invalidate marks in-flight loads of key stale, then drops the cached copy.
// Later readers start a fresh load instead of joining one that may be stale.
func (r *CachedRepository) invalidate(ctx context.Context, key string) {
	r.mu.Lock()
	for _, load := range r.loads[key] {
		load.stale = true
	}
	r.mu.Unlock()

	r.group.Forget(key)
	r.invalidateCache(ctx, key)
}

func (r *CachedRepository) invalidateCache(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}

func (r *CachedRepository) beginLoad(key string) *pendingLoad {
	load := &pendingLoad{}
	r.mu.Lock()
	r.loads[key] = append(r.loads[key], load)
	r.mu.Unlock()
	return load
}

func (r *CachedRepository) endLoad(key string, load *pendingLoad) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loads := r.loads[key]
	for i, l := range loads {
		if l == load {
			loads = append(loads[:i], loads[i+1:]...)
			break
		}
	}
	if len(loads) == 0 {
		delete(r.loads, key)
		return
	}
	r.loads[key] = loads
}

func (r *CachedRepository) isStale(load *pendingLoad) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return load.stale
}
