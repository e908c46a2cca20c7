package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"wisefido-guardian/internal/config"
	"wisefido-guardian/internal/models"
)

// AlertCache Redis 报警缓存管理器
// 保存当前会话最近触发的报警事件，供外部面板/聚合端读取
type AlertCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewAlertCache 创建报警缓存管理器
func NewAlertCache(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *AlertCache {
	return &AlertCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// key 构建缓存键，如 "guardian:session:<session_id>:alerts"
func (c *AlertCache) key(sessionID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Redis.Cache.KeyPrefix,
		sessionID,
		c.config.Redis.Cache.Suffix,
	)
}

// UpdateSessionAlerts 刷新会话的报警缓存（带 TTL）
func (c *AlertCache) UpdateSessionAlerts(ctx context.Context, sessionID string, events []models.AlertEvent) error {
	jsonData, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal alert events: %w", err)
	}

	err = c.redisClient.Set(
		ctx,
		c.key(sessionID),
		jsonData,
		time.Duration(c.config.Redis.Cache.TTL)*time.Second,
	).Err()
	if err != nil {
		return fmt.Errorf("failed to set alert cache: %w", err)
	}

	c.logger.Debug("Updated alert cache",
		zap.String("session_id", sessionID),
		zap.Int("alert_count", len(events)),
	)

	return nil
}

// GetSessionAlerts 读取会话的报警缓存
func (c *AlertCache) GetSessionAlerts(ctx context.Context, sessionID string) ([]models.AlertEvent, error) {
	val, err := c.redisClient.Get(ctx, c.key(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("alerts not found for session: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get alert cache: %w", err)
	}

	var events []models.AlertEvent
	if err := json.Unmarshal([]byte(val), &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert events: %w", err)
	}

	return events, nil
}
