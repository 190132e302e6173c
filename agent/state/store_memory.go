package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps contexts in process memory. Used by tests and
// single-node runs without Redis. Values are stored as JSON so callers get
// the same copy semantics as the Redis store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, tenantID, phone string) (*ConversationContext, error) {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(phone) == "" {
		return nil, ErrInvalidKey
	}
	key := ContextKey(tenantID, phone)

	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrContextNotFound
	}

	var c ConversationContext
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unmarshal conversation context: %w", err)
	}
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, c *ConversationContext) error {
	if c == nil {
		return ErrNilContext
	}
	if err := c.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation context: %w", err)
	}

	s.mu.Lock()
	s.data[c.Key()] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, tenantID, phone string) error {
	s.mu.Lock()
	delete(s.data, ContextKey(tenantID, phone))
	s.mu.Unlock()
	return nil
}
