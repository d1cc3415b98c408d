package storage

import (
	"context"
	"fmt"

	"github.com/mbutler/war-machine/pkg/event"
	"github.com/mbutler/war-machine/pkg/world"
)

// MockStore is an in-memory Store for tests. Any of the function fields
// may be set to override the default behavior.
type MockStore struct {
	Snapshot  *world.Snapshot
	Chronicle []event.ChronicleEntry

	SaveErr   error
	LoadErr   error
	AppendErr error

	SaveCalls int
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }

func (m *MockStore) SaveSnapshot(ctx context.Context, s *world.Snapshot) error {
	if m.SaveErr != nil {
		return fmt.Errorf("mock save failure: %w", m.SaveErr)
	}
	m.SaveCalls++
	m.Snapshot = s
	return nil
}

func (m *MockStore) LoadSnapshot(ctx context.Context) (*world.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, fmt.Errorf("mock load failure: %w", m.LoadErr)
	}
	return m.Snapshot, nil
}

func (m *MockStore) AppendChronicle(ctx context.Context, e event.ChronicleEntry) error {
	if m.AppendErr != nil {
		return fmt.Errorf("mock append failure: %w", m.AppendErr)
	}
	m.Chronicle = append(m.Chronicle, e)
	return nil
}

func (m *MockStore) TailChronicle(ctx context.Context, limit int) ([]event.ChronicleEntry, error) {
	if limit <= 0 || limit >= len(m.Chronicle) {
		return m.Chronicle, nil
	}
	return m.Chronicle[len(m.Chronicle)-limit:], nil
}

func (m *MockStore) Close() error { return nil }
