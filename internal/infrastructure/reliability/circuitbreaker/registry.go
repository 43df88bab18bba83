package circuitbreaker

import (
	"container/list"
	"sync"
	"time"
)

const DefaultRegistryCapacity = 10000

type registryEntry struct {
	key     string
	breaker *Breaker
}

// Registry hands out one breaker per key and evicts the least recently used key past capacity.
type Registry struct {
	mu        sync.Mutex
	policy    Policy
	capacity  int
	evictList *list.List
	items     map[string]*list.Element
}

func NewRegistry(policy Policy, capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultRegistryCapacity
	}

	return &Registry{
		policy:    policy,
		capacity:  capacity,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

func (r *Registry) Get(key string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if element, ok := r.items[key]; ok {
		r.evictList.MoveToFront(element)
		return element.Value.(*registryEntry).breaker
	}

	breaker := New(r.policy)
	r.items[key] = r.evictList.PushFront(&registryEntry{key: key, breaker: breaker})

	for r.evictList.Len() > r.capacity {
		oldest := r.evictList.Back()
		r.evictList.Remove(oldest)
		delete(r.items, oldest.Value.(*registryEntry).key)
	}

	return breaker
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.evictList.Len()
}

func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictList.Init()
	r.items = make(map[string]*list.Element)
}

func (r *Registry) Allow(key string, now time.Time) error {
	return r.Get(key).Allow(now)
}

func (r *Registry) OnSuccess(key string, now time.Time) {
	r.Get(key).OnSuccess(now)
}

func (r *Registry) OnFailure(key string, now time.Time) {
	r.Get(key).OnFailure(now)
}
