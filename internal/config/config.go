package config

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Gateway  GatewayConfig  `json:"gateway"`
	Speech   SpeechConfig   `json:"speech"`
	Emotion  EmotionConfig  `json:"emotion"`
	Auth     AuthConfig     `json:"auth"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// GatewayConfig selects and configures the text-generation provider.
type GatewayConfig struct {
	Provider       string `json:"provider"` // "gemini" or "openai"
	APIKey         string `json:"api_key,omitempty"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SpeechConfig configures transcription and synthesis.
type SpeechConfig struct {
	LanguageCode      string `json:"language_code"`
	VoiceLanguageCode string `json:"voice_language_code"`
	VoiceName         string `json:"voice_name"`
}

// EmotionConfig configures the audio emotion-classification endpoint.
type EmotionConfig struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key,omitempty"`
}

type AuthConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	// Add config paths
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "saathi")
	viper.SetDefault("database.database", "saathi")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("gateway.provider", "gemini")
	viper.SetDefault("gateway.model", "gemini-1.5-flash")
	viper.SetDefault("gateway.timeout_seconds", 30)
	viper.SetDefault("speech.language_code", "en-US")
	viper.SetDefault("speech.voice_language_code", "en-IN")
	viper.SetDefault("speech.voice_name", "en-IN-Standard-A")
	viper.SetDefault("auth.token_ttl_minutes", 60)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine; defaults plus env cover it.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)

	return &cfg, nil
}

func loadEnvOverrides(cfg *Config) {
	if port := os.Getenv("SAATHI_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("SAATHI_HOST"); host != "" {
		cfg.Server.Host = host
	}

	// Database overrides
	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.Gateway.Provider == "gemini" {
		cfg.Gateway.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Gateway.Provider == "openai" {
		cfg.Gateway.APIKey = key
	}
	if key := os.Getenv("EMOTION_API_KEY"); key != "" {
		cfg.Emotion.APIKey = key
	}
	if secret := os.Getenv("SAATHI_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
}
