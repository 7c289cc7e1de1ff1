package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jungsanbot/backend/internal/domain"
)

func previewKey(id string) string {
	return fmt.Sprintf("settlement_preview_%s", id)
}

func (h *Handler) previewTTL() time.Duration {
	return time.Duration(h.config.Upload.PreviewExpiration) * time.Second
}

func (h *Handler) savePreview(preview *domain.SettlementPreview) error {
	data, err := json.Marshal(preview)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	return h.redisClient.Set(ctx, previewKey(preview.ID), data, h.previewTTL()).Err()
}

// loadPreview 는 키가 없으면 redis.Nil 을 그대로 돌려준다
func (h *Handler) loadPreview(id string) (*domain.SettlementPreview, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := h.redisClient.Get(ctx, previewKey(id)).Bytes()
	if err != nil {
		return nil, err
	}

	preview := &domain.SettlementPreview{}
	if err := json.Unmarshal(data, preview); err != nil {
		return nil, err
	}

	return preview, nil
}

func (h *Handler) deletePreview(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, previewKey(id)).Err()
}
