// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"os"
	"time"

	"github.com/ewilliams-labs/songradar/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort int `mapstructure:"SERVER_PORT"`

	ACRIdentifyURL  string `mapstructure:"ACR_IDENTIFY_URL"`
	ACRAccessKey    string `mapstructure:"ACR_ACCESS_KEY"`
	ACRAccessSecret string `mapstructure:"ACR_ACCESS_SECRET"`
	ACRMetadataURL  string `mapstructure:"ACR_METADATA_URL"`
	ACRToken        string `mapstructure:"ACR_TOKEN"`

	LrclibURL       string `mapstructure:"LRCLIB_URL"`
	LrclibUserAgent string `mapstructure:"LRCLIB_USER_AGENT"`

	ShazamURL     string `mapstructure:"SHAZAM_URL"`
	ShazamAPIKey  string `mapstructure:"SHAZAM_API_KEY"`
	ShazamAPIHost string `mapstructure:"SHAZAM_API_HOST"`

	ChatProvider string `mapstructure:"CHAT_PROVIDER"`
	OllamaHost   string `mapstructure:"OLLAMA_HOST"`
	OllamaModel  string `mapstructure:"OLLAMA_MODEL"`
	GroqURL      string `mapstructure:"GROQ_URL"`
	GroqAPIKey   string `mapstructure:"GROQ_API_KEY"`
	GroqModel    string `mapstructure:"GROQ_MODEL"`

	CatalogDriver  string `mapstructure:"CATALOG_DRIVER"`
	CatalogPath    string `mapstructure:"CATALOG_PATH"`
	RecommendLimit int    `mapstructure:"RECOMMEND_LIMIT"`

	ClipStoreSize  int    `mapstructure:"CLIP_STORE_SIZE"`
	AudioTranscode bool   `mapstructure:"AUDIO_TRANSCODE"`
	FfmpegPath     string `mapstructure:"FFMPEG_PATH"`

	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

// Accepted CATALOG_DRIVER and CHAT_PROVIDER values.
const (
	CatalogDriverCSV    = "csv"
	CatalogDriverSQLite = "sqlite"

	ChatProviderOllama = "ollama"
	ChatProviderGroq   = "groq"
)

var defaults = map[string]any{
	"SERVER_PORT":       8080,
	"ACR_IDENTIFY_URL":  "https://identify-ap-southeast-1.acrcloud.com/v1/identify",
	"ACR_ACCESS_KEY":    "",
	"ACR_ACCESS_SECRET": "",
	"ACR_METADATA_URL":  "https://eu-api-v2.acrcloud.com/api/external-metadata/tracks",
	"ACR_TOKEN":         "",
	"LRCLIB_URL":        "https://lrclib.net/api",
	"LRCLIB_USER_AGENT": "SONG-RADAR v1.0",
	"SHAZAM_URL":        "https://shazam-api6.p.rapidapi.com",
	"SHAZAM_API_KEY":    "",
	"SHAZAM_API_HOST":   "shazam-api6.p.rapidapi.com",
	"CHAT_PROVIDER":     "ollama",
	"OLLAMA_HOST":       "http://localhost:11434",
	"OLLAMA_MODEL":      "llama3.1",
	"GROQ_URL":          "https://api.groq.com/openai/v1",
	"GROQ_API_KEY":      "",
	"GROQ_MODEL":        "mixtral-8x7b-32768",
	"CATALOG_DRIVER":    "csv",
	"CATALOG_PATH":      "data/catalog.csv",
	"RECOMMEND_LIMIT":   5,
	"CLIP_STORE_SIZE":   64,
	"AUDIO_TRANSCODE":   false,
	"FFMPEG_PATH":       "",
	"UPSTREAM_TIMEOUT":  "0s",
	"LOG_FORMAT":        "json",
	"LOG_LEVEL":         "info",
}

// New reads the configuration. Environment variables win over the .env file,
// which is only consulted when SERVER_PORT is not set in the environment.
func New() (Config, error) {
	return load(".env")
}

func load(envFile string) (Config, error) {
	log := logger.New("config").Function("New")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			log.Warn("Failed to bind environment variable", "env", key, "error", err)
		}
	}
	v.AutomaticEnv()

	if !envIsSet("SERVER_PORT") && envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Debug("No env file loaded", "file", envFile, "error", err)
		} else {
			log.Info("Loaded env file", "file", envFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, log.Err("could not unmarshal config", err)
	}

	if err := validate(cfg, log); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config, log logger.Logger) error {
	if cfg.ServerPort <= 0 {
		return log.Error("invalid server port", "port", cfg.ServerPort)
	}
	switch cfg.CatalogDriver {
	case CatalogDriverCSV, CatalogDriverSQLite:
	default:
		return log.Error("unknown catalog driver", "driver", cfg.CatalogDriver)
	}
	switch cfg.ChatProvider {
	case ChatProviderOllama:
	case ChatProviderGroq:
		if cfg.GroqAPIKey == "" {
			return log.Error("GROQ_API_KEY required when CHAT_PROVIDER is groq")
		}
	default:
		return log.Error("unknown chat provider", "provider", cfg.ChatProvider)
	}
	if cfg.RecommendLimit <= 0 {
		return log.Error("invalid recommendation limit", "limit", cfg.RecommendLimit)
	}
	if cfg.ACRAccessKey == "" || cfg.ACRAccessSecret == "" {
		log.Warn("ACR_ACCESS_KEY/ACR_ACCESS_SECRET not set; identification will fail upstream")
	}
	if cfg.ACRToken == "" {
		log.Warn("ACR_TOKEN not set; metadata search will fail upstream")
	}
	return nil
}

func envIsSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
