// Load envs from .env
// Load YAML config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port" env:"PORT"`
	UserDataDir string `yaml:"user_data_dir" env:"USER_DATA_DIR"`
	CachePath   string `yaml:"cache_path"`
	Headless    bool   `yaml:"headless"`

	// Optional delivery channel; collection runs fine without it.
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{Headless: true}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	// Override with env vars
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dir := os.Getenv("USER_DATA_DIR"); dir != "" {
		cfg.UserDataDir = dir
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	// Set default values if not set
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.UserDataDir == "" {
		cfg.UserDataDir = "user_data"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	return cfg
}
