package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"recipe-studio/internal/pkg/common"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Completion  CompletionConfig `mapstructure:"completion"`
	Image       ImageConfig      `mapstructure:"image"`
	Storage     StorageConfig    `mapstructure:"storage"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Metrics     MetricsConfig    `mapstructure:"metrics"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// CompletionConfig chat-completion 端點設定
type CompletionConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	JSONMode    bool          `mapstructure:"json_mode"`
}

// ImageConfig 圖片查詢設定
type ImageConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// StorageConfig 客戶端資料儲存設定
type StorageConfig struct {
	Driver          string        `mapstructure:"driver"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Burst    int           `mapstructure:"burst"`
}

// MetricsConfig Prometheus 指標設定
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment only")
	}

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	_ = viper.BindEnv("completion.api_key", "GROQ_API_KEY")
	_ = viper.BindEnv("completion.model", "COMPLETION_MODEL")
	_ = viper.BindEnv("completion.base_url", "COMPLETION_BASE_URL")
	_ = viper.BindEnv("completion.timeout", "COMPLETION_TIMEOUT")
	_ = viper.BindEnv("image.base_url", "IMAGE_BASE_URL")
	_ = viper.BindEnv("image.enabled", "IMAGE_ENABLED")
	_ = viper.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = viper.BindEnv("storage.redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("storage.redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = viper.BindEnv("rate_limit.burst", "RATE_LIMIT_BURST")
	_ = viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.port", "SERVER_PORT")

	// 選用的 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration", "groq_key:", common.MaskSecret(viper.GetString("completion.api_key")), "model:", viper.GetString("completion.model"))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-studio")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.request_timeout", "45s")
	viper.SetDefault("server.max_body_bytes", 1<<20) // 1MB
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Completion 設定
	viper.SetDefault("completion.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("completion.model", "llama-3.1-8b-instant")
	viper.SetDefault("completion.temperature", 0.7)
	viper.SetDefault("completion.max_tokens", 2048)
	viper.SetDefault("completion.timeout", "30s")
	viper.SetDefault("completion.json_mode", true)

	// 圖片設定
	viper.SetDefault("image.enabled", true)
	viper.SetDefault("image.base_url", "https://source.unsplash.com")
	viper.SetDefault("image.timeout", "4s")
	viper.SetDefault("image.max_retries", 2)

	// 儲存設定
	viper.SetDefault("storage.driver", "memory")
	viper.SetDefault("storage.max_size", 10000)
	viper.SetDefault("storage.ttl", "720h")
	viper.SetDefault("storage.cleanup_interval", "10m")
	viper.SetDefault("storage.redis.addr", "localhost:6379")
	viper.SetDefault("storage.redis.db", 0)
	viper.SetDefault("storage.redis.key_prefix", "recipe-studio:")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")
	viper.SetDefault("rate_limit.burst", 10)

	// 指標設定
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	viper.SetDefault("dedup_window", "1s")
	viper.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	// 外部呼叫的等待上限需落在 8s~30s
	if config.Completion.Timeout < 8*time.Second || config.Completion.Timeout > 30*time.Second {
		return fmt.Errorf("completion timeout must be between 8s and 30s, got %s", config.Completion.Timeout)
	}
	if config.Completion.BaseURL == "" {
		return fmt.Errorf("completion base url is required")
	}
	if config.Completion.MaxTokens <= 0 {
		return fmt.Errorf("invalid completion max tokens")
	}
	if config.Completion.Temperature < 0 || config.Completion.Temperature > 2 {
		return fmt.Errorf("completion temperature must be between 0 and 2")
	}

	if config.Image.Enabled {
		if config.Image.BaseURL == "" {
			return fmt.Errorf("image base url is required when image lookup is enabled")
		}
		if config.Image.Timeout <= 0 || config.Image.Timeout > 10*time.Second {
			return fmt.Errorf("image timeout must be between 0 and 10s")
		}
	}
	if config.Image.MaxRetries < 0 {
		return fmt.Errorf("invalid image max retries")
	}

	switch config.Storage.Driver {
	case "memory":
		if config.Storage.MaxSize <= 0 {
			return fmt.Errorf("invalid storage max size")
		}
		if config.Storage.TTL <= 0 {
			return fmt.Errorf("invalid storage ttl")
		}
		if config.Storage.CleanupInterval <= 0 {
			return fmt.Errorf("invalid storage cleanup interval")
		}
	case "redis":
		if config.Storage.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for redis storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	if config.Metrics.Enabled && !strings.HasPrefix(config.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /")
	}

	return nil
}
