package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PlanDraft is a generated plan awaiting confirmation.
type PlanDraft struct {
	ID        string     `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Result    PlanResult `json:"result"`
	CreatedAt time.Time  `json:"created_at"`
}

// RedisDraftStore keeps drafts in Redis under "mealplan:draft:<id>".
type RedisDraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ DraftStore = (*RedisDraftStore)(nil)

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDraftStore{redis: client, ttl: ttl}
}

func draftKey(id string) string {
	return fmt.Sprintf("mealplan:draft:%s", id)
}

func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *PlanDraft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*PlanDraft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var draft PlanDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) DeleteDraft(ctx context.Context, id string) error {
	return s.redis.Del(ctx, draftKey(id)).Err()
}
