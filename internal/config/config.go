package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	WorkerCount       int
	MaxPrecedingLines int
	MaxLineLength     int
	CacheDB           string
	PluginConfigPath  string
	StrictCodes       bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:       getEnvInt("WORKER_COUNT", 8),
		MaxPrecedingLines: getEnvInt("MAX_PRECEDING_LINES", 5),
		MaxLineLength:     getEnvInt("MAX_LINE_LENGTH", 0),
		CacheDB:           getEnv("CACHE_DB", "rpgtrans.db"),
		PluginConfigPath:  getEnv("PLUGIN_CONFIG", ""),
		StrictCodes:       getEnvBool("STRICT_CODES", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
