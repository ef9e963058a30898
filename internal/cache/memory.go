package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. It backs tests and
// store-less development runs; semantics match the Redis implementation.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	zsets   map[string]map[string]float64
	zexpiry map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		zsets:   make(map[string]map[string]float64),
		zexpiry: make(map[string]time.Time),
		now:     time.Now,
	}
}

// SetClock overrides the store clock, for tests
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the raw value and whether the key exists
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

// Set writes a value with a TTL
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = memoryEntry{value: stored, expiresAt: expiresAt}
	return nil
}

// Delete removes a single key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// DeleteByPrefix removes all keys with the given prefix
func (s *MemoryStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			count++
		}
	}
	for key := range s.zsets {
		if strings.HasPrefix(key, prefix) {
			delete(s.zsets, key)
			delete(s.zexpiry, key)
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) zsetLocked(key string) map[string]float64 {
	if expiry, ok := s.zexpiry[key]; ok && !expiry.IsZero() && s.now().After(expiry) {
		delete(s.zsets, key)
		delete(s.zexpiry, key)
	}
	zset, ok := s.zsets[key]
	if !ok {
		zset = make(map[string]float64)
		s.zsets[key] = zset
	}
	return zset
}

// ZAdd inserts a member with a score into a sorted set
func (s *MemoryStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zsetLocked(key)[member] = score
	return nil
}

// ZCard returns the cardinality of a sorted set
func (s *MemoryStore) ZCard(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.zsetLocked(key))), nil
}

// ZRemRangeByScore removes members with scores in [min, max]
func (s *MemoryStore) ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zset := s.zsetLocked(key)
	var removed int64
	for member, score := range zset {
		if score >= min && score <= max {
			delete(zset, member)
			removed++
		}
	}
	return removed, nil
}

// ZRangeWithScores returns members by rank, lowest score first
func (s *MemoryStore) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zset := s.zsetLocked(key)
	members := make([]ZMember, 0, len(zset))
	for member, score := range zset {
		members = append(members, ZMember{Member: member, Score: score})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score == members[j].Score {
			return members[i].Member < members[j].Member
		}
		return members[i].Score < members[j].Score
	})

	n := int64(len(members))
	if start < 0 {
		start = n + start
	}
	if stop < 0 {
		stop = n + stop
	}
	if start < 0 {
		start = 0
	}
	if start >= n || stop < start {
		return []ZMember{}, nil
	}
	if stop >= n {
		stop = n - 1
	}
	return members[start : stop+1], nil
}

// Expire sets a TTL on a sorted set
func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.expiresAt = s.now().Add(ttl)
		s.entries[key] = entry
		return nil
	}
	if _, ok := s.zsets[key]; ok {
		s.zexpiry[key] = s.now().Add(ttl)
	}
	return nil
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
