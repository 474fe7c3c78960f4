package middleware_test

import (
	"context"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
// Every operation fails with err when it is set.
type MockStore struct {
	data map[string]domain.SessionSnapshot
	err  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]domain.SessionSnapshot),
	}
}

func (s *MockStore) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.data[snap.ID] = snap
	return nil
}

func (s *MockStore) Load(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	if s.err != nil {
		return domain.SessionSnapshot{}, s.err
	}
	snap, ok := s.data[sessionID]
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return snap, nil
}

func (s *MockStore) Delete(ctx context.Context, sessionID string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, sessionID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.SessionStore = (*MockStore)(nil)
