// Package cache хранит синтезированное аудио, чтобы не запрашивать одну и ту же фразу повторно.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache хранилище байтовых значений по строковому ключу
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Close()
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache LRU кэш в памяти с временем жизни записей
type MemoryCache struct {
	cache *lru.Cache[string, *entry]
	ttl   time.Duration
	mu    sync.RWMutex
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// NewMemoryCache создает кэш на size записей. ttl <= 0 - записи не устаревают.
func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	c, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}

	mc := &MemoryCache{
		cache: c,
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	if ttl > 0 {
		go mc.cleanupLoop()
	}
	return mc, nil
}

// Get возвращает значение, если оно есть и не устарело
func (mc *MemoryCache) Get(key string) ([]byte, bool) {
	mc.mu.RLock()
	e, ok := mc.cache.Get(key)
	mc.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if mc.expired(e, mc.now()) {
		mc.mu.Lock()
		mc.cache.Remove(key)
		mc.mu.Unlock()
		return nil, false
	}
	return e.data, true
}

// Set сохраняет значение
func (mc *MemoryCache) Set(key string, value []byte) {
	e := &entry{data: value}
	if mc.ttl > 0 {
		e.expiresAt = mc.now().Add(mc.ttl)
	}

	mc.mu.Lock()
	mc.cache.Add(key, e)
	mc.mu.Unlock()
}

// Len число записей, включая еще не вычищенные устаревшие
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.cache.Len()
}

// Close останавливает фоновую очистку
func (mc *MemoryCache) Close() {
	mc.once.Do(func() { close(mc.done) })
}

func (mc *MemoryCache) expired(e *entry, now time.Time) bool {
	return mc.ttl > 0 && now.After(e.expiresAt)
}

func (mc *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(mc.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-mc.done:
			return
		case <-ticker.C:
			mc.removeExpired()
		}
	}
}

func (mc *MemoryCache) removeExpired() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for _, key := range mc.cache.Keys() {
		if e, ok := mc.cache.Peek(key); ok && mc.expired(e, now) {
			mc.cache.Remove(key)
		}
	}
}

// NoopCache ничего не хранит, используется при выключенном кэше
type NoopCache struct{}

// NewNoopCache создает пустой кэш
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get всегда промах
func (NoopCache) Get(string) ([]byte, bool) { return nil, false }

// Set ничего не делает
func (NoopCache) Set(string, []byte) {}

// Close ничего не делает
func (NoopCache) Close() {}
