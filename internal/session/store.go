package session

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Store persists raw session documents by player key.
type Store interface {
	// Load returns nil, nil when no session exists for key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// RunRecord is one finished portal quest in the run journal.
type RunRecord struct {
	RunID      string
	PlayerKey  string
	Seed       uint32
	Moves      int
	Outcome    string
	FinishedAt time.Time
}

// RunRecorder keeps a journal of finished portal quests.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// RunLister reads the run journal of one player, newest first.
type RunLister interface {
	ListRuns(ctx context.Context, key string, limit int) ([]RunRecord, error)
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	runs []RunRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(data)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) RecordRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) ListRuns(_ context.Context, key string, limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RunRecord
	for i := len(s.runs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.runs[i].PlayerKey == key {
			out = append(out, s.runs[i])
		}
	}
	return out, nil
}

// Runs returns a copy of the recorded runs.
func (s *MemoryStore) Runs() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.runs)
}
