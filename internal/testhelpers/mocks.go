package testhelpers

import (
	"context"
	"sync"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// FakeLLM answers every prompt with a fixed response or error and records the prompts.
type FakeLLM struct {
	mu       sync.Mutex
	Response string
	Err      error
	prompts  []string
}

func (f *FakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.Response, f.Err
}

// Prompts returns the prompts received so far.
func (f *FakeLLM) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// MemoryDraftStore is an in-process service.DraftStore.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]service.PlanDraft
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]service.PlanDraft)}
}

func (m *MemoryDraftStore) SaveDraft(ctx context.Context, draft *service.PlanDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *MemoryDraftStore) GetDraft(ctx context.Context, id string) (*service.PlanDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, service.ErrDraftNotFound
	}
	return &d, nil
}

func (m *MemoryDraftStore) DeleteDraft(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

// MockImageStore is a mock implementation of service.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockImageStore) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
