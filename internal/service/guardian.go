package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"wisefido-guardian/internal/alert"
	"wisefido-guardian/internal/cache"
	"wisefido-guardian/internal/config"
	"wisefido-guardian/internal/monitor"
	"wisefido-guardian/internal/mqtt"
	"wisefido-guardian/internal/prompt"
	"wisefido-guardian/internal/repository"
	"wisefido-guardian/internal/sensor"
)

// GuardianService 监护服务（整合各层）
// 按配置按需连接 Postgres/Redis/MQTT；默认全部关闭时为纯模拟会话
type GuardianService struct {
	config    *config.Config
	logger    *zap.Logger
	sessionID string

	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client

	monitor *monitor.Monitor
}

// NewGuardianService 创建监护服务
func NewGuardianService(cfg *config.Config, logger *zap.Logger, in io.Reader, out io.Writer) (*GuardianService, error) {
	s := &GuardianService{
		config:    cfg,
		logger:    logger,
		sessionID: uuid.New().String(),
	}

	// 1. 连接数据库（可选）
	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", buildDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		s.db = db
	}

	// 2. 连接 Redis（可选）
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		s.redisClient = redisClient
	}

	// 3. 连接 MQTT（可选）
	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.NewClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mqtt: %w", err)
		}
		s.mqttClient = mqttClient
	}

	// 4. 报警接收端与分发器
	sinks := []alert.Sink{alert.NewConsoleSink(out, logger)}
	if s.mqttClient != nil {
		sinks = append(sinks, alert.NewMQTTSink(s.mqttClient, cfg.MQTT.AlertTopic, logger))
	}

	var store alert.EventStore
	if s.db != nil {
		store = repository.NewAlertEventsRepository(s.db, logger)
	}

	var alertCache alert.EventCache
	if s.redisClient != nil {
		alertCache = cache.NewAlertCache(cfg, s.redisClient, logger)
	}

	dispatcher := alert.NewDispatcher(s.sessionID, sinks, store, alertCache, logger)

	// 5. 数据源：MQTT 遥测或模拟器
	var source sensor.Source
	if s.mqttClient != nil && cfg.MQTT.TelemetryEnabled {
		mqttSource, err := sensor.NewMQTTSource(s.mqttClient, cfg.MQTT.TelemetryTopic, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create telemetry source: %w", err)
		}
		source = mqttSource
	} else {
		source = sensor.NewSimulator(time.Now().UnixNano())
	}

	// 6. 安全确认网关与状态机
	gateway := prompt.NewConsoleGateway(in, out, cfg.Monitor.SafetyPIN, logger)
	engine := monitor.NewEngine(cfg, gateway, dispatcher, logger)
	s.monitor = monitor.NewMonitor(cfg, source, gateway, engine, logger)

	logger.Info("Guardian service created",
		zap.String("session_id", s.sessionID),
		zap.Bool("database", s.db != nil),
		zap.Bool("redis", s.redisClient != nil),
		zap.Bool("mqtt", s.mqttClient != nil),
	)

	return s, nil
}

// SessionID 当前会话ID
func (s *GuardianService) SessionID() string {
	return s.sessionID
}

// Run 运行监测会话
func (s *GuardianService) Run(ctx context.Context) error {
	return s.monitor.Run(ctx)
}

// Stop 关闭所有连接
func (s *GuardianService) Stop() {
	s.logger.Info("Stopping guardian service")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database",
				zap.Error(err),
			)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis",
				zap.Error(err),
			)
		}
	}

	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
}

// buildDSN 构建数据库连接字符串
func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)
}
