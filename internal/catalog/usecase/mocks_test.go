package usecase

import (
	"context"
	"sync"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/eventbus"

	"github.com/stretchr/testify/mock"
)

// mockServiceRepository is a testify mock of DocumentRepository[*model.Service].
type mockServiceRepository struct {
	mock.Mock
}

func (m *mockServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Service), args.Error(1)
}

func (m *mockServiceRepository) Get(ctx context.Context, id string) (*model.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}

func (m *mockServiceRepository) Create(ctx context.Context, item *model.Service) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockServiceRepository) Replace(ctx context.Context, item *model.Service) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockServiceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockServiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// recordingPublisher keeps every published change event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) changes() []model.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.ChangeEvent, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Data().(model.ChangeEvent))
	}
	return out
}
