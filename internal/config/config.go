package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config 监护服务配置
type Config struct {
	// 监测/升级配置
	Monitor struct {
		BaselineHeartRate   int    // 用户静息心率（bpm），仅作展示参考
		SafetyPIN           string // 安全 PIN（空表示不启用 PIN 校验）
		ResponseTimeout     int    // 安全确认应答超时（秒），默认 15
		CycleDelay          int    // 监测周期间隔（秒），默认 10
		EscalationThreshold int    // 升级阈值（评分 > 阈值时需要用户确认），默认 45
		SharpJumpThreshold  int    // 评分突变阈值（两个周期之间），默认 20
		WindowSize          int    // 滑动窗口容量，默认 5
		Interactive         bool   // 启动时是否进行交互式配置，默认 true
	}

	// Redis 报警缓存配置（可选）
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int

		Cache struct {
			KeyPrefix string // 报警缓存键前缀，如 "guardian:session:"
			Suffix    string // 报警缓存键后缀，如 ":alerts"
			TTL       int    // 报警缓存 TTL（秒）
		}
	}

	// PostgreSQL 报警事件存储配置（可选）
	Database struct {
		Enabled  bool
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	// MQTT 配置（可选：报警分发 + 生产环境遥测数据源）
	MQTT struct {
		Enabled          bool
		Broker           string
		ClientID         string
		Username         string
		Password         string
		AlertTopic       string // 报警发布主题
		TelemetryTopic   string // 遥测订阅主题
		TelemetryEnabled bool   // true 时用 MQTT 遥测替代模拟数据源
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 监测配置（默认值与交互式设置共同决定会话参数）
	cfg.Monitor.BaselineHeartRate = getEnvInt("MONITOR_BASELINE_HR", 75)
	cfg.Monitor.SafetyPIN = getEnv("MONITOR_SAFETY_PIN", "")
	cfg.Monitor.ResponseTimeout = getEnvInt("MONITOR_RESPONSE_TIMEOUT", 15)
	cfg.Monitor.CycleDelay = getEnvInt("MONITOR_CYCLE_DELAY", 10)
	cfg.Monitor.EscalationThreshold = getEnvInt("MONITOR_ESCALATION_THRESHOLD", 45)
	cfg.Monitor.SharpJumpThreshold = getEnvInt("MONITOR_SHARP_JUMP_THRESHOLD", 20)
	cfg.Monitor.WindowSize = getEnvInt("MONITOR_WINDOW_SIZE", 5)
	cfg.Monitor.Interactive = getEnvBool("MONITOR_INTERACTIVE", true)

	if cfg.Monitor.EscalationThreshold < 0 || cfg.Monitor.EscalationThreshold > 100 {
		return nil, fmt.Errorf("invalid escalation threshold: %d", cfg.Monitor.EscalationThreshold)
	}

	// Redis 配置
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0
	cfg.Redis.Cache.KeyPrefix = getEnv("CACHE_ALERT_PREFIX", "guardian:session:")
	cfg.Redis.Cache.Suffix = ":alerts"
	cfg.Redis.Cache.TTL = getEnvInt("CACHE_ALERT_TTL", 3600)

	// 数据库配置
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "guardian")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	// MQTT 配置
	cfg.MQTT.Enabled = getEnvBool("MQTT_ENABLED", false)
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "wisefido-guardian")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.AlertTopic = getEnv("MQTT_ALERT_TOPIC", "guardian/alerts")
	cfg.MQTT.TelemetryTopic = getEnv("MQTT_TELEMETRY_TOPIC", "guardian/telemetry")
	cfg.MQTT.TelemetryEnabled = getEnvBool("MQTT_TELEMETRY_ENABLED", false)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
