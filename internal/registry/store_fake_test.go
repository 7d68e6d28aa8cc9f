package registry

import (
	"context"
	"fmt"
	"sync"
)

// fakeStore is an in-memory Store that counts operations and can be made
// to fail, for exercising the best-effort persistence contract.
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	records   map[string]map[int64]Record
	writes    int
	deletes   int
	reads     int
	failWrite bool
	failRead  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]map[int64]Record)}
}

func (s *fakeStore) Write(_ context.Context, namespace string, rec Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.failWrite {
		return 0, fmt.Errorf("disk full")
	}
	if rec.ID == 0 {
		s.nextID++
		rec.ID = s.nextID
	}
	bucket := s.records[namespace]
	if bucket == nil {
		bucket = make(map[int64]Record)
		s.records[namespace] = bucket
	}
	bucket[rec.ID] = rec
	return rec.ID, nil
}

func (s *fakeStore) ReadAll(_ context.Context, namespace string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.failRead {
		return nil, fmt.Errorf("corrupt database")
	}
	var out []Record
	for _, rec := range s.records[namespace] {
		out = append(out, rec)
	}
	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, namespace string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.records[namespace], id)
	return nil
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *fakeStore) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

func (s *fakeStore) stored(namespace string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records[namespace] {
		out = append(out, rec)
	}
	return out
}
