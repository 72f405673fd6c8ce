package services

import (
	"context"
	"foodorder_server/structs"
	"sync"
	"time"
)

// SessionStore keeps one conversation record per normalized phone number.
// Get returns (nil, nil) for unknown numbers.
type SessionStore interface {
	Get(ctx context.Context, phone string) (*structs.Session, error)
	Save(ctx context.Context, session *structs.Session) error
	Delete(ctx context.Context, phone string) error
}

// MemorySessionStore is a process-local store. Records are copied on the way
// in and out so handlers never share slices across goroutines.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*structs.Session
	ttl      time.Duration
	now      func() time.Time
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates a store; a zero ttl keeps sessions forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*structs.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (ms *MemorySessionStore) Get(_ context.Context, phone string) (*structs.Session, error) {
	ms.mu.RLock()
	session, ok := ms.sessions[phone]
	ms.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if ms.ttl > 0 && ms.now().Sub(session.UpdatedAt) > ms.ttl {
		ms.mu.Lock()
		// A Save may have replaced the record since the read lock was released.
		if current, ok := ms.sessions[phone]; ok && current == session {
			delete(ms.sessions, phone)
		}
		ms.mu.Unlock()
		return nil, nil
	}
	return session.Clone(), nil
}

func (ms *MemorySessionStore) Save(_ context.Context, session *structs.Session) error {
	stored := session.Clone()
	stored.UpdatedAt = ms.now()

	ms.mu.Lock()
	ms.sessions[session.Phone] = stored
	ms.mu.Unlock()
	return nil
}

func (ms *MemorySessionStore) Delete(_ context.Context, phone string) error {
	ms.mu.Lock()
	delete(ms.sessions, phone)
	ms.mu.Unlock()
	return nil
}

// Len reports the number of stored sessions.
func (ms *MemorySessionStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

// RedisSessionStore keeps sessions as JSON documents in redis so several
// server processes share them.
type RedisSessionStore struct {
	cache *CacheService
	ttl   time.Duration
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(cache *CacheService, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: cache, ttl: ttl}
}

func (rs *RedisSessionStore) key(phone string) string {
	return rs.cache.Key("session", phone)
}

func (rs *RedisSessionStore) Get(ctx context.Context, phone string) (*structs.Session, error) {
	return getJSON[structs.Session](ctx, rs.cache, rs.key(phone))
}

func (rs *RedisSessionStore) Save(ctx context.Context, session *structs.Session) error {
	session.UpdatedAt = time.Now()
	return setJSON(ctx, rs.cache, rs.key(session.Phone), session, rs.ttl)
}

func (rs *RedisSessionStore) Delete(ctx context.Context, phone string) error {
	return rs.cache.Delete(ctx, rs.key(phone))
}
