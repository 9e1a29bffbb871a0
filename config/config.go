package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用程序配置
type Config struct {
	APIPort  int
	AppEnv   string
	LogLevel string
	LogFile  LogFileConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Admin    AdminConfig
	Webhook  WebhookConfig
	Twitch   TwitchConfig
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // 单个文件最大大小，单位MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// StorageConfig 持久化配置
type StorageConfig struct {
	Driver          string // file | redis | mysql | s3 | memory
	DataDir         string
	KeyPrefix       string
	BackupRetention int // 每个集合保留的备份数量，0表示不限制
	BackupInterval  time.Duration
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// S3Config 对象存储配置（兼容R2）
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// AdminConfig 管理员配置
type AdminConfig struct {
	Username     string
	Password     string
	SessionTTL   time.Duration
	SessionStore string // memory | redis
}

// WebhookConfig Discord Webhook默认配置
type WebhookConfig struct {
	URL       string
	Username  string
	AvatarURL string
}

// TwitchConfig 直播频道配置
type TwitchConfig struct {
	MainChannel   string
	GamingChannel string
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// .env 文件不存在时直接使用环境变量
	_ = godotenv.Load()

	return &Config{
		APIPort:  getInt("API_PORT", 8080),
		AppEnv:   getString("APP_ENV", "development"),
		LogLevel: getString("LOG_LEVEL", "info"),
		LogFile: LogFileConfig{
			Enabled:    getBool("LOG_FILE_ENABLED", false),
			Path:       getString("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:    getInt("LOG_FILE_MAX_SIZE", 100),
			MaxBackups: getInt("LOG_FILE_MAX_BACKUPS", 7),
			MaxAge:     getInt("LOG_FILE_MAX_AGE", 30),
			Compress:   getBool("LOG_FILE_COMPRESS", true),
		},
		Storage: StorageConfig{
			Driver:          strings.ToLower(getString("STORAGE_DRIVER", "file")),
			DataDir:         getString("STORAGE_DATA_DIR", ".data"),
			KeyPrefix:       getString("STORAGE_KEY_PREFIX", "fansite/"),
			BackupRetention: getInt("BACKUP_RETENTION", 20),
			BackupInterval:  getDuration("BACKUP_INTERVAL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getInt("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     getString("REDIS_HOST", "127.0.0.1"),
			Port:     getInt("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		S3: S3Config{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          getString("S3_REGION", "auto"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("S3_BUCKET"),
		},
		Admin: AdminConfig{
			Username:     getString("ADMIN_USERNAME", "admin"),
			Password:     os.Getenv("ADMIN_PASSWORD"),
			SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
			SessionStore: strings.ToLower(getString("SESSION_STORE", "memory")),
		},
		Webhook: WebhookConfig{
			URL:       os.Getenv("DISCORD_WEBHOOK_URL"),
			Username:  getString("DISCORD_WEBHOOK_USERNAME", "Fansite"),
			AvatarURL: os.Getenv("DISCORD_WEBHOOK_AVATAR_URL"),
		},
		Twitch: TwitchConfig{
			MainChannel:   getString("TWITCH_MAIN_CHANNEL", "main"),
			GamingChannel: getString("TWITCH_GAMING_CHANNEL", "gaming"),
		},
	}, nil
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
