package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MemoryStore keeps objects in a map. Failures can be injected per prefix or key.
type MemoryStore struct {
	Objects    map[string][]byte
	ListErrors map[string]error
	GetErrors  map[string]error
	ListCalls  []string
	GetCalls   []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Objects:    make(map[string][]byte),
		ListErrors: make(map[string]error),
		GetErrors:  make(map[string]error),
	}
}

// Put stores data under key
func (m *MemoryStore) Put(key string, data []byte) {
	m.Objects[key] = data
}

// ListObjects returns objects whose key starts with prefix, in key order
func (m *MemoryStore) ListObjects(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.ListCalls = append(m.ListCalls, prefix)
	if err, ok := m.ListErrors[prefix]; ok {
		return nil, err
	}
	var result []ObjectInfo
	for key, data := range m.Objects {
		if strings.HasPrefix(key, prefix) {
			result = append(result, ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// GetObject returns the stored bytes for key
func (m *MemoryStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.GetCalls = append(m.GetCalls, key)
	if err, ok := m.GetErrors[key]; ok {
		return nil, err
	}
	data, ok := m.Objects[key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", key)
	}
	return data, nil
}
